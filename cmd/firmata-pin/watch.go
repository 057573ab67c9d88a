package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/gpio"

	firmata "github.com/GermanBionicSystems/firmatahost"
)

var (
	watchEdge    string
	watchTimeout time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <pin>...",
	Short: "Block until one of the pins changes",
	Long: `watch configures the given digital pins as inputs and blocks until at
least one of them changes, then prints the new level of every watched pin.

--edge selects the kind of change to wait for: any (default), rising waits
for some pin to go low to high, falling for high to low. With --timeout the
command gives up after the given duration and reports that nothing changed.`,
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

		wait := func(ctx context.Context) ([]gpio.Level, error) {
			switch watchEdge {
			case "any":
				return c.WaitAny(ctx, pins...)
			case "rising":
				return c.WaitAnyHigh(ctx, pins...)
			case "falling":
				return c.WaitAnyLow(ctx, pins...)
			}
			return nil, fmt.Errorf("invalid edge %q (want any, rising or falling)", watchEdge)
		}

		var levels []gpio.Level
		if watchTimeout > 0 {
			var ok bool
			levels, ok, err = firmata.TimeOut(watchTimeout, wait)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("No change within", watchTimeout)
				return nil
			}
		} else {
			levels, err = wait(context.Background())
			if err != nil {
				return err
			}
		}

		for i, p := range pins {
			fmt.Printf("%s=%s\n", p, levels[i])
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchEdge, "edge", "any", "Change to wait for: any, rising or falling")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 0, "Give up after this duration (0 waits forever)")
	rootCmd.AddCommand(watchCmd)
}
