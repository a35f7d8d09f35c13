// SPDX-License-Identifier: MIT
package main

import (
	"auragraph/internal/config"
	"auragraph/internal/engine"
	"auragraph/internal/log"

	"github.com/spf13/cobra"
)

func newBounceCmd(cfg *config.Config) *cobra.Command {
	var outputPath string
	var duration float64

	cmd := &cobra.Command{
		Use:   "bounce",
		Short: "Render the demo graph to a WAV file without opening an audio device",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				outputPath = cfg.Bounce.OutputPath
			}
			if outputPath == "" {
				outputPath = "bounce.wav"
			}
			if duration <= 0 {
				duration = cfg.Bounce.Duration
			}

			final, err := buildDemoGraph(cfg)
			if err != nil {
				return err
			}
			srv, err := engine.NewServer(cfg, final)
			if err != nil {
				return err
			}
			if err := srv.Bounce(outputPath, duration); err != nil {
				return err
			}
			log.Infof("auragraph: bounced %.2fs to %s", duration, outputPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output WAV path (default: config bounce.output_path or bounce.wav)")
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "duration in seconds (default: config bounce.duration_seconds)")
	return cmd
}
