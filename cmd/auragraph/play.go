// SPDX-License-Identifier: MIT
package main

import (
	"os"
	"os/signal"
	"syscall"

	"auragraph/internal/config"
	"auragraph/internal/engine"
	"auragraph/internal/log"

	"github.com/gordonklaus/portaudio"
	"github.com/spf13/cobra"
)

func newPlayCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Render the demo graph live to an output device until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := portaudio.Initialize(); err != nil {
				return err
			}
			defer portaudio.Terminate()

			final, err := buildDemoGraph(cfg)
			if err != nil {
				return err
			}
			srv, err := engine.NewServer(cfg, final)
			if err != nil {
				return err
			}
			if err := srv.Start(cfg.Device.OutputDeviceID, cfg.Device.LowLatency); err != nil {
				return err
			}
			defer srv.Stop()

			log.Infof("auragraph: playing, press Ctrl-C to stop")
			done := make(chan os.Signal, 1)
			signal.Notify(done, os.Interrupt, syscall.SIGTERM)
			<-done
			return nil
		},
	}
	return cmd
}
