package firmata

import (
	"periph.io/x/conn/v3/pin"
)

// Pin modes use the periph pin.Func vocabulary so capability tables and the
// gpio adapter share one set of names.
const (
	PinFuncDigitalInput  pin.Func = "Digital Input"
	PinFuncDigitalOutput pin.Func = "Digital Output"
	PinFuncAnalogInput   pin.Func = "Analog Input"
	PinFuncPWM           pin.Func = "PWM"
	PinFuncServo         pin.Func = "Servo"
	PinFuncShift         pin.Func = "Shift"
	PinFuncI2C           pin.Func = "I2C"
	PinFuncOneWire       pin.Func = "OneWire"
	PinFuncStepper       pin.Func = "Stepper"
	PinFuncEncoder       pin.Func = "Encoder"
	PinFuncSerial        pin.Func = "Serial"
	PinFuncInputPullUp   pin.Func = "Input Pull-Up"
	PinFuncSPI           pin.Func = "SPI"
	PinFuncSonar         pin.Func = "Sonar"
	PinFuncTone          pin.Func = "Tone"
	PinFuncDHT           pin.Func = "DHT"
)

var pinFuncToModeMap = map[pin.Func]uint8{
	PinFuncDigitalInput:  0x0,
	PinFuncDigitalOutput: 0x1,
	PinFuncAnalogInput:   0x2,
	PinFuncPWM:           0x3,
	PinFuncServo:         0x4,
	PinFuncShift:         0x5,
	PinFuncI2C:           0x6,
	PinFuncOneWire:       0x7,
	PinFuncStepper:       0x8,
	PinFuncEncoder:       0x9,
	PinFuncSerial:        0xA,
	PinFuncInputPullUp:   0xB,
	PinFuncSPI:           0xC,
	PinFuncSonar:         0xD,
	PinFuncTone:          0xE,
	PinFuncDHT:           0xF,
}

var pinModeToFuncMap = map[uint8]pin.Func{}

func init() {
	for f, m := range pinFuncToModeMap {
		pinModeToFuncMap[m] = f
	}
}

// isInputFunc reports whether a mode makes the pin readable as a digital
// input.
func isInputFunc(f pin.Func) bool {
	return f == PinFuncDigitalInput || f == PinFuncInputPullUp
}
