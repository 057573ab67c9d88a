package firmata

import (
	"context"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// GPIO adapts one driver pin to periph's gpio.PinIO, so Firmata pins can be
// handed to device drivers that only know the conn interfaces.
type GPIO struct {
	c    *Client
	p    Pin
	edge gpio.Edge
}

// GPIO returns the periph adapter for a pin.
func (c *Client) GPIO(p Pin) *GPIO {
	return &GPIO{c: c, p: p}
}

func (g *GPIO) In(pull gpio.Pull, edge gpio.Edge) error {
	var mode pin.Func
	switch pull {
	case gpio.PullDown:
		return ErrUnsupportedGPIOPull
	case gpio.PullUp:
		mode = PinFuncInputPullUp
	case gpio.Float:
		mode = PinFuncDigitalInput
	case gpio.PullNoChange:
		current, err := g.c.PinMode(g.p)
		if err != nil {
			return err
		}
		if !isInputFunc(current) {
			return ErrNoMatchingGPIOPull
		}
		mode = current
	}

	if err := g.c.SetPinMode(g.p, mode); err != nil {
		return err
	}
	g.edge = edge
	return nil
}

// Read returns the pin's cached level; Low when the pin is not readable.
func (g *GPIO) Read() gpio.Level {
	v, err := g.c.DigitalRead(g.p)
	if err != nil {
		return gpio.Low
	}
	return v
}

func (g *GPIO) WaitForEdge(timeout time.Duration) bool {
	ctx := context.Background()
	if timeout >= 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	for {
		before, after, err := g.c.waitGeneric(ctx, []Pin{g.p})
		if err != nil {
			return false
		}
		switch g.edge {
		case gpio.BothEdges:
			return true
		case gpio.RisingEdge:
			if before[0] == gpio.Low && after[0] == gpio.High {
				return true
			}
		case gpio.FallingEdge:
			if before[0] == gpio.High && after[0] == gpio.Low {
				return true
			}
		default:
			return false
		}
	}
}

func (g *GPIO) Pull() gpio.Pull {
	mode, err := g.c.PinMode(g.p)
	if err != nil {
		return gpio.PullNoChange
	}
	switch mode {
	case PinFuncInputPullUp:
		return gpio.PullUp
	case PinFuncDigitalInput:
		return gpio.Float
	}
	return gpio.PullNoChange
}

func (g *GPIO) DefaultPull() gpio.Pull {
	return gpio.PullNoChange
}

func (g *GPIO) Out(l gpio.Level) error {
	mode, err := g.c.PinMode(g.p)
	if err != nil {
		return err
	}
	if mode != PinFuncDigitalOutput {
		if err := g.c.SetPinMode(g.p, PinFuncDigitalOutput); err != nil {
			return err
		}
	}
	return g.c.DigitalWrite(g.p, l)
}

// PWM is not supported; the driver only speaks the digital and analog input
// subset of the protocol.
func (g *GPIO) PWM(duty gpio.Duty, f physic.Frequency) error {
	return ErrPWMNotSupported
}

func (g *GPIO) Func() pin.Func {
	mode, err := g.c.PinMode(g.p)
	if err != nil {
		return pin.FuncNone
	}
	return mode
}

func (g *GPIO) SetFunc(f pin.Func) error {
	return g.c.SetPinMode(g.p, f)
}

func (g *GPIO) SupportedFuncs() []pin.Func {
	return g.c.SupportedFuncs(g.p)
}

func (g *GPIO) Halt() error {
	mode, err := g.c.PinMode(g.p)
	if err != nil {
		return err
	}
	if mode == PinFuncDigitalOutput {
		return g.c.DigitalWrite(g.p, gpio.Low)
	}
	return nil
}

func (g *GPIO) Name() string {
	return g.c.PinName(g.p)
}

func (g *GPIO) String() string {
	return g.Name()
}

func (g *GPIO) Number() int {
	ip, err := g.c.internalPin(g.p)
	if err != nil {
		return -1
	}
	return int(ip)
}

func (g *GPIO) Function() string {
	return string(g.Func())
}

var _ gpio.PinIO = &GPIO{}
var _ pin.PinFunc = &GPIO{}
