package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.bug.st/serial"

	firmata "github.com/GermanBionicSystems/firmatahost"
	"github.com/GermanBionicSystems/firmatahost/firmatareg"
)

// registerSerialPort exposes the --port device through the registry, so board
// access below this point is by name only.
func registerSerialPort() error {
	if portName == "" {
		return errors.New("no serial port specified, use --port")
	}

	return firmatareg.Register(portName, nil, func() (*firmata.Client, error) {
		mode := &serial.Mode{
			BaudRate: baudRate,
			Parity:   serial.NoParity,
			DataBits: 8,
			StopBits: serial.OneStopBit,
		}
		port, err := serial.Open(portName, mode)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", portName, err)
		}

		c := firmata.NewClient(port)
		if err := c.Start(); err != nil {
			_ = port.Close()
			return nil, err
		}
		return c, nil
	})
}

// openClient connects to the board and queries the analog mapping so both
// pin numbering schemes work.
func openClient() (*firmata.Client, error) {
	if err := registerSerialPort(); err != nil {
		return nil, err
	}
	c, err := firmatareg.Open(portName)
	if err != nil {
		return nil, err
	}
	if _, err := c.QueryAnalogMapping(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports that may have a board attached",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := serial.GetPortsList()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			fmt.Println("No serial ports found.")
			return nil
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
