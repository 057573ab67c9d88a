package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

var intervalCmd = &cobra.Command{
	Use:   "interval <milliseconds>",
	Short: "Set the firmware's sampling interval",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ms, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return err
		}
		c, err := openClient()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()
		return c.SetSamplingInterval(uint16(ms))
	},
}

func init() {
	rootCmd.AddCommand(intervalCmd)
}
