package firmata

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

// MaxPins is the number of pins addressable by the protocol.
const MaxPins = 128

const maxPorts = MaxPins / 8

// Pin identifies an I/O line on the board. Digital pins are addressed by
// their number directly; analog pins are addressed by channel and resolved
// through the board's analog mapping before any command is issued.
type Pin struct {
	n      uint8
	analog bool
}

// D addresses a pin by its digital number.
func D(n uint8) Pin {
	return Pin{n: n}
}

// A addresses a pin by its analog channel (A0, A1, ...). Using an analog
// address requires the analog mapping to have been queried first.
func A(n uint8) Pin {
	return Pin{n: n, analog: true}
}

// IsAnalog reports whether the pin is addressed by analog channel.
func (p Pin) IsAnalog() bool {
	return p.analog
}

func (p Pin) String() string {
	if p.analog {
		return fmt.Sprintf("A%d", p.n)
	}
	return fmt.Sprintf("%d", p.n)
}

// pinState is one record of the pin-state table. The mode is mutated only by
// SetPinMode, the values only by the inbound-report watcher.
type pinState struct {
	mode    pin.Func
	level   gpio.Level
	analog  uint16
	sampled bool
}

// portOf returns the byte-wide port an internal pin belongs to and its bit
// position within that port.
func portOf(ip uint8) (port, bit uint8) {
	return ip / 8, ip % 8
}

// mergePortBit merges a single pin's level into the cached bits of its port.
func mergePortBit(bits uint8, bit uint8, level gpio.Level) uint8 {
	if level {
		return bits | 1<<bit
	}
	return bits &^ (1 << bit)
}

// internalPin resolves a pin address to the internal pin number commands are
// issued against.
func (c *Client) internalPin(p Pin) (uint8, error) {
	if !p.analog {
		if p.n >= MaxPins {
			return 0, fmt.Errorf("%w: %s", ErrInvalidPin, p)
		}
		return p.n, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.amr.AnalogPinToDigital) == 0 {
		return 0, fmt.Errorf("%w: call QueryAnalogMapping before addressing %s", ErrNoAnalogMapping, p)
	}
	if int(p.n) >= len(c.amr.AnalogPinToDigital) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAnalogPin, p)
	}
	return c.amr.AnalogPinToDigital[p.n], nil
}

// analogChannel returns the analog channel of an internal pin, if it has one.
func (c *Client) analogChannel(ip uint8) (uint8, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.amr.DigitalPinToAnalog[ip]
	return ch, ok
}

// registerPinMode records the new mode of an internal pin and returns the
// follow-up commands the mode requires. Input modes enable reporting for the
// pin's digital port, analog input enables reporting for the pin's channel;
// the board streams value reports only for what has been enabled.
func (c *Client) registerPinMode(ip uint8, mode pin.Func) ([][]byte, error) {
	var followUps [][]byte
	switch {
	case isInputFunc(mode):
		port, _ := portOf(ip)
		followUps = append(followUps, []byte{byte(ReportDigitalPort) | port&0xF, 1})
	case mode == PinFuncAnalogInput:
		ch, ok := c.analogChannel(ip)
		if !ok {
			return nil, fmt.Errorf("%w: pin %d has no analog channel", ErrNoAnalogMapping, ip)
		}
		followUps = append(followUps, []byte{byte(ReportAnalogPin) | ch&0xF, 1})
	}

	c.mu.Lock()
	c.pins[ip].mode = mode
	c.mu.Unlock()

	return followUps, nil
}
