package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/gpio"

	firmata "github.com/GermanBionicSystems/firmatahost"
)

var pulseTimeout time.Duration

var pulseCmd = &cobra.Command{
	Use:   "pulse <pin> <high|low>",
	Short: "Measure the duration of a pulse on a pin",
	Long: `pulse configures the pin as a digital input, waits for it to reach the
given level and measures how long it stays there. The resolution is bounded
by the firmware's sampling interval, so short pulses are not observable.`,
	Args: cobra.ExactArgs(2),
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

		if err := c.SetPinMode(p, firmata.PinFuncDigitalInput); err != nil {
			return err
		}
		d, ok, err := c.PulseIn(context.Background(), p, gpio.Level(level), pulseTimeout)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("No pulse within", pulseTimeout)
			return nil
		}
		fmt.Println(d)
		return nil
	},
}

func init() {
	pulseCmd.Flags().DurationVar(&pulseTimeout, "timeout", time.Second, "Give up after this duration (0 waits forever)")
	rootCmd.AddCommand(pulseCmd)
}
