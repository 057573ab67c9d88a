package firmata

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"
)

// fakeConn is an in-memory stand-in for the serial port: outbound commands
// are captured, inbound device traffic is injected chunk by chunk.
type fakeConn struct {
	mu sync.Mutex
	wr bytes.Buffer

	rd        chan []byte
	pending   []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		rd:     make(chan []byte, 64),
		closed: make(chan struct{}),
	}
}

func (f *fakeConn) Read(p []byte) (int, error) {
	if len(f.pending) == 0 {
		select {
		case b, ok := <-f.rd:
			if !ok {
				return 0, io.EOF
			}
			f.pending = b
		case <-f.closed:
			return 0, io.EOF
		}
	}
	n := copy(p, f.pending)
	f.pending = f.pending[n:]
	return n, nil
}

func (f *fakeConn) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wr.Write(p)
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

// inject queues device-to-host bytes for the watcher to decode.
func (f *fakeConn) inject(b ...byte) {
	f.rd <- b
}

// eof simulates the device side going away.
func (f *fakeConn) eof() {
	close(f.rd)
}

// injectAfterWrite injects once the client has sent at least n bytes, so a
// response never races the registration of its query.
func (f *fakeConn) injectAfterWrite(n int, b ...byte) {
	go func() {
		for len(f.written()) < n {
			time.Sleep(time.Millisecond)
		}
		f.inject(b...)
	}()
}

// written snapshots everything the client has sent so far.
func (f *fakeConn) written() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.wr.Bytes()...)
}

func (f *fakeConn) resetWritten() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wr.Reset()
}

// awaitWritten polls until the client has sent at least n bytes.
func (f *fakeConn) awaitWritten(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(f.written()) >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d written bytes, have %d", n, len(f.written()))
}

func newTestClient(t *testing.T) (*Client, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	c := NewClient(conn)
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, conn
}

// seedAnalogMapping installs a mapping where A0 is digital pin 14, A1 is 15,
// and so on up to A5, via a real query/response exchange.
func seedAnalogMapping(t *testing.T, c *Client, conn *fakeConn) {
	t.Helper()
	payload := make([]byte, 20)
	for i := 0; i < 14; i++ {
		payload[i] = CapabilityResponsePinDelimiter
	}
	for i := 14; i < 20; i++ {
		payload[i] = byte(i - 14)
	}

	frame := append([]byte{byte(StartSysEx), byte(SysExAnalogMappingResponse)}, payload...)
	conn.injectAfterWrite(1, append(frame, byte(EndSysEx))...)

	amr, err := c.QueryAnalogMapping()
	if err != nil {
		t.Fatal(err)
	}
	if len(amr.AnalogPinToDigital) != 6 || amr.AnalogPinToDigital[0] != 14 {
		t.Fatalf("unexpected mapping: %v", amr.AnalogPinToDigital)
	}
	conn.resetWritten()
}

// awaitLevel polls the cached digital value until it matches.
func awaitLevel(t *testing.T, c *Client, p Pin, want bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v, err := c.DigitalRead(p)
		if err != nil {
			t.Fatal(err)
		}
		if bool(v) == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("pin %s never reached %t", p, want)
}

func TestStartTwice(t *testing.T) {
	c, _ := newTestClient(t)
	if err := c.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second Start() = %v, want ErrAlreadyStarted", err)
	}
}

func TestQueryFirmware(t *testing.T) {
	c, conn := newTestClient(t)

	name := ByteSliceToTwoByteRepresentation([]byte("StandardFirmata.ino"))
	frame := append([]byte{byte(StartSysEx), byte(SysExReportFirmware), 2, 5}, name...)
	conn.injectAfterWrite(1, append(frame, byte(EndSysEx))...)

	report, err := c.QueryFirmware()
	if err != nil {
		t.Fatal(err)
	}
	if report.Major != 2 || report.Minor != 5 {
		t.Errorf("version = %d.%d, want 2.5", report.Major, report.Minor)
	}
	if got := TwoByteString(report.Name); got != "StandardFirmata.ino" {
		t.Errorf("name = %q", got)
	}

	want := []byte{byte(StartSysEx), byte(SysExReportFirmware), byte(EndSysEx)}
	if got := conn.written(); !bytes.Equal(got, want) {
		t.Errorf("query bytes = %s, want %s", SprintHexArray(got), SprintHexArray(want))
	}
}

func TestUnsolicitedFirmwareReportIsIgnored(t *testing.T) {
	c, conn := newTestClient(t)

	frame := append([]byte{byte(StartSysEx), byte(SysExReportFirmware), 2, 5}, ByteSliceToTwoByteRepresentation([]byte("x"))...)
	conn.inject(append(frame, byte(EndSysEx))...)

	// The client must stay usable afterwards.
	if err := c.SetPinMode(D(2), PinFuncDigitalInput); err != nil {
		t.Fatal(err)
	}
}

func TestUnexpectedSysExIsFatal(t *testing.T) {
	c, conn := newTestClient(t)

	conn.injectAfterWrite(1, byte(StartSysEx), 0x62, 0x01, byte(EndSysEx))

	_, err := c.QueryFirmware()
	if !errors.Is(err, ErrUnexpectedSysEx) {
		t.Fatalf("QueryFirmware() = %v, want ErrUnexpectedSysEx", err)
	}

	// The failure is terminal.
	if err := c.SetPinMode(D(2), PinFuncDigitalInput); !errors.Is(err, ErrUnexpectedSysEx) {
		t.Fatalf("SetPinMode after fatal error = %v, want ErrUnexpectedSysEx", err)
	}
}

func TestDeviceEOF(t *testing.T) {
	c, conn := newTestClient(t)

	if err := c.SetPinMode(D(2), PinFuncDigitalInput); err != nil {
		t.Fatal(err)
	}
	conn.eof()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err := c.SendReset(); errors.Is(err, ErrDeviceDisconnected) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("client never reported ErrDeviceDisconnected")
}

func TestProtocolVersionReport(t *testing.T) {
	c, conn := newTestClient(t)

	conn.inject(byte(ProtocolVersion), 2, 5)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if major, minor := c.ProtocolVersion(); major == 2 && minor == 5 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("protocol version never recorded")
}

func TestCloseUnblocksWaiters(t *testing.T) {
	c, _ := newTestClient(t)

	if err := c.SetPinMode(D(2), PinFuncDigitalInput); err != nil {
		t.Fatal(err)
	}

	errs := make(chan error, 1)
	go func() {
		_, err := c.WaitFor(context.Background(), D(2))
		errs <- err
	}()

	time.Sleep(20 * time.Millisecond)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-errs:
		if !errors.Is(err, ErrClientClosed) {
			t.Fatalf("WaitFor after Close = %v, want ErrClientClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WaitFor still blocked after Close")
	}
}
