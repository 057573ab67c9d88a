package main

import (
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/GermanBionicSystems/firmatahost/pinscreen"
)

var monitorRefresh time.Duration

var monitorCmd = &cobra.Command{
	Use:   "monitor <pin>...",
	Short: "Continuously display pin values in the terminal",
	Long: `monitor configures the given pins as inputs and redraws their values
in place until interrupted. Digital pins show high/low, analog pins show the
raw 10-bit sample.`,
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

		screen := pinscreen.New(&pinscreen.Opts{})
		defer func() { _ = screen.Halt() }()

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		defer signal.Stop(interrupt)

		ticker := time.NewTicker(monitorRefresh)
		defer ticker.Stop()

		cells := make([]pinscreen.Cell, len(pins))
		for {
			for i, p := range pins {
				cells[i].Label = p.String()
				cells[i].Analog = p.IsAnalog()
				if p.IsAnalog() {
					v, err := c.AnalogRead(p)
					if err != nil {
						return err
					}
					cells[i].Sample = v
				} else {
					level, err := c.DigitalRead(p)
					if err != nil {
						return err
					}
					cells[i].Level = bool(level)
				}
			}
			if err := screen.Draw(cells); err != nil {
				return err
			}
			select {
			case <-ticker.C:
			case <-interrupt:
				return nil
			}
		}
	},
}

func init() {
	monitorCmd.Flags().DurationVar(&monitorRefresh, "refresh", 50*time.Millisecond, "Redraw period")
	rootCmd.AddCommand(monitorCmd)
}
