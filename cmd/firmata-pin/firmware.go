package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var firmwareCmd = &cobra.Command{
	Use:   "firmware",
	Short: "Query the board's firmware name and version",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		report, err := c.QueryFirmware()
		if err != nil {
			return err
		}
		fmt.Println("Firmware:", report)

		if verbose {
			cr, err := c.QueryCapabilities()
			if err != nil {
				return err
			}
			fmt.Print(cr)
		}
		return nil
	},
}

var verbose bool

func init() {
	firmwareCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print the per-pin capability table")
	rootCmd.AddCommand(firmwareCmd)
}
