// SPDX-License-Identifier: MIT
package main

import (
	"os"
	"os/signal"
	"syscall"

	"auragraph/internal/config"
	"auragraph/internal/engine"
	"auragraph/internal/log"
	"auragraph/internal/monitor"

	"github.com/gordonklaus/portaudio"
	"github.com/spf13/cobra"
)

func newMonitorCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Play the demo graph while streaming its spectrum to FFT monitoring clients",
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

			fftSize := 1 << 11 // 2048, a steady compromise between frequency and time resolution at audio rates
			analyzer := monitor.NewAnalyzer(fftSize, cfg.Engine.SampleRate)

			var closers []func() error

			if cfg.Monitor.HTTPAddr != "" {
				ws := monitor.NewWebSocketTransport(cfg.Monitor.HTTPAddr, cfg.Monitor.WebSocketSendInterval)
				analyzer.AddTransport(ws)
				closers = append(closers, ws.Close)
			}
			if cfg.Monitor.UDPEnabled {
				sender, err := monitor.NewUDPSender(cfg.Monitor.UDPTargetAddr)
				if err != nil {
					return err
				}
				pub := monitor.NewUDPPublisher(sender)
				analyzer.AddTransport(pub)
				closers = append(closers, pub.Close)
				log.Infof("auragraph: publishing FFT magnitudes over UDP to %s", cfg.Monitor.UDPTargetAddr)
			}

			srv.SetTap(analyzer.Feed)

			if err := srv.Start(cfg.Device.OutputDeviceID, cfg.Device.LowLatency); err != nil {
				return err
			}
			defer srv.Stop()
			defer func() {
				for _, c := range closers {
					_ = c()
				}
			}()

			log.Infof("auragraph: monitoring on %s, press Ctrl-C to stop", cfg.Monitor.HTTPAddr)
			done := make(chan os.Signal, 1)
			signal.Notify(done, os.Interrupt, syscall.SIGTERM)
			<-done
			return nil
		},
	}
	return cmd
}
