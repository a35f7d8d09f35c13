// SPDX-License-Identifier: MIT
package main

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/spf13/cobra"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available PortAudio output devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := portaudio.Initialize(); err != nil {
				return err
			}
			defer portaudio.Terminate()

			devices, err := portaudio.Devices()
			if err != nil {
				return err
			}
			for i, d := range devices {
				if d.MaxOutputChannels == 0 {
					continue
				}
				fmt.Printf("[%d] %s (%d out, %.0f Hz default)\n", i, d.Name, d.MaxOutputChannels, d.DefaultSampleRate)
			}
			return nil
		},
	}
}
