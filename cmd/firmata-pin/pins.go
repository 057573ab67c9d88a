package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/gpio"

	firmata "github.com/GermanBionicSystems/firmatahost"
)

var modeCmd = &cobra.Command{
	Use:   "mode <pin> <input|output|analog|pullup>",
	Short: "Set the mode of a pin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePin(args[0])
		if err != nil {
			return err
		}
		mode, err := parsePinMode(args[1])
		if err != nil {
			return err
		}
		c, err := openClient()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()
		return c.SetPinMode(p, mode)
	},
}

var writeCmd = &cobra.Command{
	Use:   "write <pin> <high|low>",
	Short: "Drive an output pin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePin(args[0])
		if err != nil {
			return err
		}
		level, err := parseLevel(args[1])
		if err != nil {
			return err
		}
		c, err := openClient()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()
		if err := c.SetPinMode(p, firmata.PinFuncDigitalOutput); err != nil {
			return err
		}
		return c.DigitalWrite(p, gpio.Level(level))
	},
}

var readPullUp bool

var readCmd = &cobra.Command{
	Use:   "read <pin>...",
	Short: "Read one or more pins once",
	Long: `read samples the given pins once and prints their levels. Pins given
as "A<n>" are put in analog input mode and print the raw 10-bit reading,
digital pins are put in input mode and print high or low.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pins, err := parsePins(args)
		if err != nil {
			return err
		}
		c, err := openClient()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		for _, p := range pins {
			if err := configureInput(c, p); err != nil {
				return err
			}
		}
		// The firmware reports at its own sampling cadence; give it a
		// moment to push the first reports before printing.
		time.Sleep(100 * time.Millisecond)

		for _, p := range pins {
			if p.IsAnalog() {
				v, err := c.AnalogRead(p)
				if err != nil {
					return err
				}
				fmt.Printf("%s=%d\n", p, v)
				continue
			}
			level, err := c.DigitalRead(p)
			if err != nil {
				return err
			}
			fmt.Printf("%s=%s\n", p, level)
		}
		return nil
	},
}

func parsePins(args []string) ([]firmata.Pin, error) {
	pins := make([]firmata.Pin, 0, len(args))
	for _, a := range args {
		p, err := parsePin(a)
		if err != nil {
			return nil, err
		}
		pins = append(pins, p)
	}
	return pins, nil
}

// configureInput puts a pin in the input mode matching its addressing scheme
// and the --pullup flag.
func configureInput(c *firmata.Client, p firmata.Pin) error {
	switch {
	case p.IsAnalog():
		return c.SetPinMode(p, firmata.PinFuncAnalogInput)
	case readPullUp:
		return c.SetPinMode(p, firmata.PinFuncInputPullUp)
	default:
		return c.SetPinMode(p, firmata.PinFuncDigitalInput)
	}
}

func init() {
	readCmd.Flags().BoolVar(&readPullUp, "pullup", false, "Enable the internal pull-up on digital pins")
	rootCmd.AddCommand(modeCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(readCmd)
}
