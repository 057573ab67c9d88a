package firmata

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

// Sampling intervals the protocol accepts: the value travels in a 14-bit
// field and StandardFirmata clamps anything below 10ms.
const (
	MinSamplingInterval = 10
	MaxSamplingInterval = MaxWord
)

func wrongModeError(op string, p Pin, current, required pin.Func) error {
	if current == "" {
		current = "unset"
	}
	return fmt.Errorf("%w: %s(%s): mode is %q, need %q; call SetPinMode(%s, %q) first",
		ErrWrongPinMode, op, p, current, required, p, required)
}

// SetPinMode assigns a pin's mode and issues whatever follow-up commands the
// mode requires (e.g. enabling value reporting for input modes).
func (c *Client) SetPinMode(p Pin, mode pin.Func) error {
	ip, err := c.internalPin(p)
	if err != nil {
		return err
	}
	m, ok := pinFuncToModeMap[mode]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPinMode, mode)
	}

	if err := c.write([]byte{byte(SetPinMode), ip, m}, nil); err != nil {
		return err
	}

	followUps, err := c.registerPinMode(ip, mode)
	if err != nil {
		return err
	}
	for _, cmd := range followUps {
		if err := c.write(cmd, nil); err != nil {
			return err
		}
	}
	return nil
}

// PinMode returns the mode last assigned to the pin, or pin.FuncNone if the
// pin has not been configured.
func (c *Client) PinMode(p Pin) (pin.Func, error) {
	ip, err := c.internalPin(p)
	if err != nil {
		return pin.FuncNone, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pins[ip].mode == "" {
		return pin.FuncNone, nil
	}
	return c.pins[ip].mode, nil
}

// DigitalWrite sets the level of an output pin. Writes happen at port
// granularity: the new bit is merged into the cached levels of the other pins
// in the port. When the cache already holds the requested level no command is
// sent.
func (c *Client) DigitalWrite(p Pin, level gpio.Level) error {
	ip, err := c.internalPin(p)
	if err != nil {
		return err
	}

	return c.locked(func() error {
		if mode := c.pins[ip].mode; mode != PinFuncDigitalOutput {
			return wrongModeError("DigitalWrite", p, mode, PinFuncDigitalOutput)
		}

		port, bit := portOf(ip)
		next := mergePortBit(c.ports[port], bit, level)
		if next == c.ports[port] {
			return nil
		}

		lsb, msb := WordToTwoByte(uint16(next))
		if _, err := c.conn.Write([]byte{byte(DigitalIOMessage) | port&0xF, lsb, msb}); err != nil {
			return err
		}
		c.ports[port] = next
		return nil
	})
}

// PullUpResistor enables or disables the internal pull-up of an input pin by
// writing the pin's port. Unlike DigitalWrite there is no short-circuit: the
// hardware may have been reset behind our back, so the command is always
// sent.
func (c *Client) PullUpResistor(p Pin, enable bool) error {
	ip, err := c.internalPin(p)
	if err != nil {
		return err
	}

	return c.locked(func() error {
		if mode := c.pins[ip].mode; mode != PinFuncDigitalInput {
			return wrongModeError("PullUpResistor", p, mode, PinFuncDigitalInput)
		}

		port, bit := portOf(ip)
		next := mergePortBit(c.ports[port], bit, gpio.Level(enable))
		lsb, msb := WordToTwoByte(uint16(next))
		if _, err := c.conn.Write([]byte{byte(DigitalIOMessage) | port&0xF, lsb, msb}); err != nil {
			return err
		}
		c.ports[port] = next
		return nil
	})
}

// DigitalRead returns the pin's last reported level. It never blocks; a pin
// that has not been reported yet reads Low.
func (c *Client) DigitalRead(p Pin) (gpio.Level, error) {
	ip, err := c.internalPin(p)
	if err != nil {
		return gpio.Low, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.pins[ip]
	if !isInputFunc(st.mode) {
		return gpio.Low, wrongModeError("DigitalRead", p, st.mode, PinFuncDigitalInput)
	}
	return st.level, nil
}

// AnalogRead returns the pin's last reported sample in [0, 1023]. It never
// blocks; a pin that has not been sampled yet reads 0.
func (c *Client) AnalogRead(p Pin) (uint16, error) {
	ip, err := c.internalPin(p)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.pins[ip]
	if st.mode != PinFuncAnalogInput {
		return 0, wrongModeError("AnalogRead", p, st.mode, PinFuncAnalogInput)
	}
	return st.analog, nil
}

// SetSamplingInterval configures how often the board re-samples and reports
// analog inputs, in milliseconds.
func (c *Client) SetSamplingInterval(ms uint16) error {
	if ms < MinSamplingInterval || ms > MaxSamplingInterval {
		return fmt.Errorf("%w: sampling interval %dms, valid range %d - %dms",
			ErrValueOutOfRange, ms, MinSamplingInterval, MaxSamplingInterval)
	}
	lsb, msb := WordToTwoByte(ms)
	_, err := c.sendSysEx(SysExSamplingInterval, lsb, msb)
	return err
}

// QueryFirmware asks the board for its firmware name and version and blocks
// for exactly one matching response.
func (c *Client) QueryFirmware() (FirmwareReport, error) {
	future, err := c.sendSysEx(SysExReportFirmware)
	if err != nil {
		return FirmwareReport{}, err
	}

	data, ok := <-future
	if !ok {
		return FirmwareReport{}, c.lastErr()
	}
	if len(data) < 2 {
		return FirmwareReport{}, fmt.Errorf("%w: firmware report too short: %s", ErrProtocol, SprintHexArray(data))
	}
	return FirmwareReport{Major: data[0], Minor: data[1], Name: data[2:]}, nil
}

// QueryAnalogMapping asks the board which digital pins carry analog channels.
// The mapping is retained and used to resolve A-numbered pins.
func (c *Client) QueryAnalogMapping() (AnalogMappingResponse, error) {
	future, err := c.sendSysEx(SysExAnalogMappingQuery)
	if err != nil {
		return AnalogMappingResponse{}, err
	}

	data, ok := <-future
	if !ok {
		return AnalogMappingResponse{}, c.lastErr()
	}
	return parseAnalogMappingResponse(data), nil
}

// QueryCapabilities asks the board for the supported modes and resolutions of
// every pin.
func (c *Client) QueryCapabilities() (CapabilityResponse, error) {
	future, err := c.sendSysEx(SysExCapabilityQuery)
	if err != nil {
		return CapabilityResponse{}, err
	}

	data, ok := <-future
	if !ok {
		return CapabilityResponse{}, c.lastErr()
	}
	return parseCapabilityResponse(data), nil
}

// QueryPinState asks the board for a pin's current mode and state.
func (c *Client) QueryPinState(p Pin) (PinStateResponse, error) {
	ip, err := c.internalPin(p)
	if err != nil {
		return PinStateResponse{}, err
	}

	future, err := c.sendSysEx(SysExPinStateQuery, ip)
	if err != nil {
		return PinStateResponse{}, err
	}

	data, ok := <-future
	if !ok {
		return PinStateResponse{}, c.lastErr()
	}
	return parsePinStateResponse(data)
}

// SupportedFuncs returns the modes a pin supports, per the last capability
// query.
func (c *Client) SupportedFuncs(p Pin) []pin.Func {
	ip, err := c.internalPin(p)
	if err != nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(ip) >= len(c.cr.SupportedPinModes) {
		return nil
	}
	return c.cr.SupportedPinModes[ip]
}

// PinName returns the pin's display name, using A-numbering for pins with an
// analog channel.
func (c *Client) PinName(p Pin) string {
	ip, err := c.internalPin(p)
	if err != nil {
		return p.String()
	}
	if ch, ok := c.analogChannel(ip); ok {
		return fmt.Sprintf("A%d", ch)
	}
	return fmt.Sprintf("%d", ip)
}
