package firmata

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
)

func TestGPIOIn(t *testing.T) {
	c, _ := newTestClient(t)
	g := c.GPIO(D(2))

	if err := g.In(gpio.PullDown, gpio.NoEdge); !errors.Is(err, ErrUnsupportedGPIOPull) {
		t.Fatalf("In(PullDown) = %v, want ErrUnsupportedGPIOPull", err)
	}
	if err := g.In(gpio.PullUp, gpio.NoEdge); err != nil {
		t.Fatal(err)
	}
	if g.Pull() != gpio.PullUp {
		t.Errorf("Pull() = %v, want PullUp", g.Pull())
	}
	if g.Read() != gpio.Low {
		t.Errorf("Read() = High on a never-sampled pin")
	}
	if g.Func() != PinFuncInputPullUp {
		t.Errorf("Func() = %q", g.Func())
	}
}

func TestGPIOOutSetsModeOnce(t *testing.T) {
	c, conn := newTestClient(t)
	g := c.GPIO(D(13))

	if err := g.Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	first := len(conn.written())

	if err := g.Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	// The second Out must not re-issue SetPinMode.
	got := conn.written()[first:]
	want := digitalReportFrame(1, 0x00)
	if !bytes.Equal(got, want) {
		t.Errorf("second Out wrote %s, want %s", SprintHexArray(got), SprintHexArray(want))
	}
}

func TestGPIOWaitForEdge(t *testing.T) {
	c, conn := newTestClient(t)
	g := c.GPIO(D(2))
	if err := g.In(gpio.Float, gpio.RisingEdge); err != nil {
		t.Fatal(err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		conn.inject(digitalReportFrame(0, 0x04)...)
	}()
	if !g.WaitForEdge(2 * time.Second) {
		t.Fatal("rising edge not observed")
	}

	if g.WaitForEdge(50 * time.Millisecond) {
		t.Fatal("WaitForEdge returned without an edge")
	}
}

func TestGPIOPWMUnsupported(t *testing.T) {
	c, _ := newTestClient(t)
	if err := c.GPIO(D(3)).PWM(gpio.DutyHalf, 0); !errors.Is(err, ErrPWMNotSupported) {
		t.Fatalf("PWM() = %v, want ErrPWMNotSupported", err)
	}
}
