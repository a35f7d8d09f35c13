// SPDX-License-Identifier: MIT

// Command auragraph is the CLI front end for the processing graph
// engine: it builds a small demo graph, bounces it to a WAV file,
// plays it live through PortAudio, lists output devices, or streams
// its spectrum to FFT monitoring clients.
package main

import (
	"fmt"
	"log"
	"os"

	"auragraph/internal/config"
	"auragraph/pkg/build"

	"github.com/spf13/cobra"
)

func main() {
	if err := build.Initialize(); err != nil {
		log.Fatal(err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cfg := config.Default()

	root := &cobra.Command{
		Use:           build.GetBuildFlags().Name,
		Short:         "auragraph renders and streams a block-based audio processing graph",
		Version:       build.GetBuildFlags().Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			loaded.ApplyEnvOverrides()
			*cfg = *loaded
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(newBounceCmd(cfg))
	root.AddCommand(newPlayCmd(cfg))
	root.AddCommand(newDevicesCmd())
	root.AddCommand(newMonitorCmd(cfg))

	return root
}
