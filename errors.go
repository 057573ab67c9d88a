package firmata

import (
	"errors"
)

var (
	ErrDeviceDisconnected   = errors.New("device disconnected")
	ErrClientClosed         = errors.New("client is closed")
	ErrAlreadyStarted       = errors.New("client already started")
	ErrInvalidMessageType   = errors.New("invalid message type start")
	ErrNoDataRead           = errors.New("no data read")
	ErrUnexpectedSysEx      = errors.New("unexpected sysex message type")
	ErrProtocol             = errors.New("protocol violation")
	ErrValueOutOfRange      = errors.New("value is out of range")
	ErrWrongPinMode         = errors.New("operation not allowed in the pin's current mode")
	ErrUnknownPinMode       = errors.New("unknown pin mode")
	ErrInvalidPin           = errors.New("pin number is out of range")
	ErrInvalidAnalogPin     = errors.New("analog pin is outside of the board's analog mapping")
	ErrNoAnalogMapping      = errors.New("analog mapping has not been queried")
	ErrPWMNotSupported      = errors.New("pwm output is not supported by this driver")
	ErrUnsupportedGPIOPull  = errors.New("pull-down is not supported")
	ErrNoMatchingGPIOPull   = errors.New("pin was previously in a non-input mode")
)
