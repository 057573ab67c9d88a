package firmata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3/gpio"
)

// Queries whose response arrives as a distinct SysEx command. Responses to
// the same query type are assumed to arrive in request order.
var commandResponseMap = map[SysExCmd]SysExCmd{
	SysExReportFirmware:     SysExReportFirmware,
	SysExAnalogMappingQuery: SysExAnalogMappingResponse,
	SysExCapabilityQuery:    SysExCapabilityResponse,
	SysExPinStateQuery:      SysExPinStateResponse,
}

// Client drives one Firmata board over a byte stream.
//
// All outbound commands of a Client share one logical channel and are written
// in call order. A background goroutine started by Start decodes the inbound
// stream, mutates the pin-state table in delivery order and wakes registered
// wait handles after every mutation. If the goroutine hits a protocol
// violation or the stream ends, the client becomes unusable and every pending
// or future call reports the fatal error; there is no local recovery, because
// continuing with an inconsistent pin/mode assumption risks actuating the
// wrong hardware.
type Client struct {
	conn io.ReadWriteCloser
	done chan struct{}

	mu      sync.Mutex
	started bool
	closed  bool
	err     error
	pins    [MaxPins]pinState
	ports   [maxPorts]uint8
	version [2]byte
	cr      CapabilityResponse
	amr     AnalogMappingResponse
	resp    map[SysExCmd][]chan []byte
	wakeups []chan struct{}
}

func NewClient(conn io.ReadWriteCloser) *Client {
	return &Client{
		conn: conn,
		done: make(chan struct{}),
		resp: map[SysExCmd][]chan []byte{},
	}
}

type flusher interface {
	Flush()
}

type flusherErr interface {
	Flush() error
}

// Start launches the inbound-report watcher. It must be called once before
// any command is issued.
func (c *Client) Start() error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.mu.Unlock()

	if b, ok := c.conn.(flusher); ok {
		b.Flush()
	} else if b, ok := c.conn.(flusherErr); ok {
		if err := b.Flush(); err != nil {
			return err
		}
	}

	go func() {
		_ = c.fail(c.responseWatcher())
	}()

	return nil
}

// Close tears the connection down. Blocked waiters and queries are woken with
// a fatal error.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	return c.conn.Close()
}

// locked runs fn with exclusive access to the connection and the pin-state
// table, after checking the client is still usable. Everything a command
// sends, and every cache update the command depends on, happens inside one
// critical section so commands are never interleaved or half-issued.
func (c *Client) locked(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}
	if c.closed {
		return ErrClientClosed
	}
	return fn()
}

// write sends one complete command. withinMutex, if set, runs while the
// client lock is still held, e.g. to register a response channel before any
// answer can arrive.
func (c *Client) write(payload []byte, withinMutex func()) error {
	return c.locked(func() error {
		if _, err := c.conn.Write(payload); err != nil {
			return err
		}
		if withinMutex != nil {
			withinMutex()
		}
		return nil
	})
}

// sendSysEx frames and sends a SysEx command. For queries with a known
// response command a one-shot channel is returned; it yields the response
// payload once and is closed on fatal errors.
func (c *Client) sendSysEx(cmd SysExCmd, payload ...byte) (chan []byte, error) {
	var data chan []byte

	err := c.write(append([]byte{byte(StartSysEx), byte(cmd)}, append(payload, byte(EndSysEx))...), func() {
		if resp, ok := commandResponseMap[cmd]; ok {
			data = make(chan []byte, 1)
			c.resp[resp] = append(c.resp[resp], data)
		}
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// wakeUp registers a one-shot wait handle that is signaled after the next
// inbound value report, whichever pins it concerns. Callers that give up
// before being woken must release the handle.
func (c *Client) wakeUp() chan struct{} {
	ch := make(chan struct{}, 1)
	c.mu.Lock()
	c.wakeups = append(c.wakeups, ch)
	c.mu.Unlock()
	return ch
}

func (c *Client) releaseWakeUp(ch chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, w := range c.wakeups {
		if w == ch {
			c.wakeups = append(c.wakeups[:i], c.wakeups[i+1:]...)
			return
		}
	}
}

// notifyWaiters signals and discards every registered wait handle. Handles
// are buffered so the watcher never blocks on a slow waiter.
func (c *Client) notifyWaiters() {
	c.mu.Lock()
	wakeups := c.wakeups
	c.wakeups = nil
	c.mu.Unlock()

	for _, ch := range wakeups {
		ch <- struct{}{}
	}
}

// fail records the first fatal error, closes pending response channels and
// unblocks every waiter. It is idempotent.
func (c *Client) fail(err error) error {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
		for _, chans := range c.resp {
			for _, ch := range chans {
				close(ch)
			}
		}
		c.resp = map[SysExCmd][]chan []byte{}
		close(c.done)
	}
	err = c.err
	c.mu.Unlock()

	c.notifyWaiters()
	return err
}

// lastErr is the error blocked calls report once the client has failed.
func (c *Client) lastErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	return ErrClientClosed
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// responseWatcher is the single mutation point of the pin-state table. It
// decodes inbound messages, applies value reports in delivery order, routes
// query responses and wakes waiters after every state change.
func (c *Client) responseWatcher() (err error) {
	defer func() {
		if c.isClosed() {
			err = ErrClientClosed
		} else if errors.Is(err, io.EOF) {
			err = ErrDeviceDisconnected
		}
	}()

	reader := bufio.NewReader(c.conn)
	for {
		b0, err := reader.ReadByte()
		if err != nil {
			return err
		}

		mt := MessageType(b0)
		switch {
		case mt == ProtocolVersion:
			var version [2]byte
			if _, err := io.ReadFull(reader, version[:]); err != nil {
				return err
			}
			c.mu.Lock()
			c.version = version
			c.mu.Unlock()
		case AnalogIOMessage <= mt && mt <= (AnalogIOMessage+0xF):
			v1, err := reader.ReadByte()
			if err != nil {
				return err
			}
			v2, err := reader.ReadByte()
			if err != nil {
				return err
			}
			c.applyAnalogReport(b0&0xF, TwoByteToWord(v1, v2))
		case DigitalIOMessage <= mt && mt <= (DigitalIOMessage+0xF):
			v1, err := reader.ReadByte()
			if err != nil {
				return err
			}
			v2, err := reader.ReadByte()
			if err != nil {
				return err
			}
			c.applyDigitalReport(b0&0xF, TwoByteToByte(v1, v2))
		case mt == StartSysEx:
			data, err := reader.ReadBytes(byte(EndSysEx))
			if err != nil {
				return err
			}
			if len(data) < 2 {
				return ErrNoDataRead
			}

			cmd := SysExCmd(data[0])
			if err := c.dispatchSysEx(cmd, data[1:len(data)-1]); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: 0x%02X", ErrInvalidMessageType, b0)
		}
	}
}

// applyAnalogReport stores a sample for an analog channel. Reports for
// channels outside the known analog mapping are dropped; the mapping may not
// have been queried yet.
func (c *Client) applyAnalogReport(channel uint8, value uint16) {
	c.mu.Lock()
	if int(channel) < len(c.amr.AnalogPinToDigital) {
		ip := c.amr.AnalogPinToDigital[channel]
		c.pins[ip].analog = value
		c.pins[ip].sampled = true
	}
	c.mu.Unlock()

	c.notifyWaiters()
}

// applyDigitalReport stores a port snapshot. Only pins in an input mode take
// the reported level; the outbound port cache is owned by DigitalWrite and
// not touched here.
func (c *Client) applyDigitalReport(port uint8, bits uint8) {
	c.mu.Lock()
	base := port * 8
	for bit := uint8(0); bit < 8 && int(base)+int(bit) < MaxPins; bit++ {
		st := &c.pins[base+bit]
		if !isInputFunc(st.mode) {
			continue
		}
		st.level = gpio.Level(bits&(1<<bit) != 0)
		st.sampled = true
	}
	c.mu.Unlock()

	c.notifyWaiters()
}

// dispatchSysEx routes a decoded SysEx frame. Responses without a pending
// query are stored when the board is known to volunteer them (firmware
// reports at reset); anything unrecognized is a protocol violation and fatal.
func (c *Client) dispatchSysEx(cmd SysExCmd, data []byte) error {
	c.mu.Lock()
	var pending chan []byte
	if chans := c.resp[cmd]; len(chans) != 0 {
		pending = chans[0]
		c.resp[cmd] = chans[1:]
	}

	switch cmd {
	case SysExAnalogMappingResponse:
		c.amr = parseAnalogMappingResponse(data)
	case SysExCapabilityResponse:
		c.cr = parseCapabilityResponse(data)
	}
	c.mu.Unlock()

	if pending != nil {
		pending <- data
		close(pending)
		return nil
	}

	switch cmd {
	case SysExReportFirmware:
		// Boards announce their firmware at reset, unasked.
		return nil
	case SysExAnalogMappingResponse, SysExCapabilityResponse:
		return nil
	case SysExStringData:
		fmt.Printf("device: [%s]\n", TwoByteString(data))
		return nil
	}

	return fmt.Errorf("%w: %s (0x%02X): %s", ErrUnexpectedSysEx, cmd, byte(cmd), SprintHexArray(data))
}

// SendReset asks the board to reset to its power-up state.
func (c *Client) SendReset() error {
	return c.write([]byte{byte(SystemReset)}, nil)
}

// ProtocolVersion returns the last version report received, or zeros if the
// board has not reported yet.
func (c *Client) ProtocolVersion() (major, minor byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version[0], c.version[1]
}
