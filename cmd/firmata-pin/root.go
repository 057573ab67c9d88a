package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/pin"

	firmata "github.com/GermanBionicSystems/firmatahost"
)

var (
	portName string
	baudRate int
)

var rootCmd = &cobra.Command{
	Use:   "firmata-pin",
	Short: "Drive the pins of a Firmata board",
	Long: `firmata-pin - configure, read, write and watch the I/O pins of a board
running a Firmata firmware (e.g. StandardFirmata on an Arduino).

Pins are addressed by digital number ("13") or analog channel ("A0").

Connection:
  --port /dev/ttyACM0 [--baud 57600]`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 57600, "Baud rate")
}

// parsePin accepts "13" for digital pins and "A0" for analog channels.
func parsePin(s string) (firmata.Pin, error) {
	analog := false
	if strings.HasPrefix(s, "A") || strings.HasPrefix(s, "a") {
		analog = true
		s = s[1:]
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return firmata.Pin{}, fmt.Errorf("invalid pin %q: %w", s, err)
	}
	if analog {
		return firmata.A(uint8(n)), nil
	}
	return firmata.D(uint8(n)), nil
}

var pinModeNames = map[string]pin.Func{
	"input":  firmata.PinFuncDigitalInput,
	"output": firmata.PinFuncDigitalOutput,
	"analog": firmata.PinFuncAnalogInput,
	"pullup": firmata.PinFuncInputPullUp,
}

func parsePinMode(s string) (pin.Func, error) {
	mode, ok := pinModeNames[strings.ToLower(s)]
	if !ok {
		return pin.FuncNone, fmt.Errorf("invalid mode %q (want input, output, analog or pullup)", s)
	}
	return mode, nil
}

func parseLevel(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "high", "1", "on", "true":
		return true, nil
	case "low", "0", "off", "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid level %q (want high or low)", s)
}
