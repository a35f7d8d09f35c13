// SPDX-License-Identifier: MIT

// Package config loads auragraph's runtime configuration: engine-wide
// settings (sample rate, block size), the PortAudio device to render to,
// logging, and the monitor transport, merged from a YAML file and then
// overridden by command-line flags.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Core configuration constants that define the boundaries and defaults
// for the processing graph engine.
const (
	DefaultSampleRate      = 44100
	DefaultBlockSize       = 512
	DefaultOutputChannels  = 2
	DefaultDeviceID        = MinDeviceID
	DefaultLowLatency      = false
	DefaultLogLevel        = "info"
	DefaultMonitorHTTPAddr = "127.0.0.1:8080"

	MinDeviceID     = -1
	MinSampleRate   = 8000
	MaxSampleRate   = 192000
	MinBlockSize    = 16
	MaxBlockSize    = 8192
)

// Config holds every setting the engine, device layer and monitor
// transport need, loaded from YAML and then overlaid with CLI flags.
type Config struct {
	LogLevel string `yaml:"log_level"`

	Engine EngineConfig `yaml:"engine"`
	Device DeviceConfig `yaml:"device"`
	Bounce BounceConfig `yaml:"bounce"`
	Monitor MonitorConfig `yaml:"monitor"`
}

// EngineConfig controls the processing graph's block-based scheduler.
type EngineConfig struct {
	SampleRate     float64 `yaml:"sample_rate"`
	BlockSize      int     `yaml:"block_size"`
	OutputChannels int     `yaml:"output_channels"`
}

// DeviceConfig selects and configures the PortAudio output device.
type DeviceConfig struct {
	OutputDeviceID int  `yaml:"output_device_id"`
	LowLatency     bool `yaml:"low_latency"`
}

// BounceConfig controls the `bounce` subcommand's offline render.
type BounceConfig struct {
	OutputPath string  `yaml:"output_path"`
	Format     string  `yaml:"format"`
	Duration   float64 `yaml:"duration_seconds"`
}

// MonitorConfig controls the optional websocket/UDP FFT-analysis feed
// the `monitor` subcommand exposes.
type MonitorConfig struct {
	Enabled               bool          `yaml:"enabled"`
	HTTPAddr              string        `yaml:"http_addr"`
	WebSocketSendInterval time.Duration `yaml:"websocket_send_interval"`
	UDPEnabled            bool          `yaml:"udp_enabled"`
	UDPTargetAddr         string        `yaml:"udp_target_address"`
	UDPSendInterval       time.Duration `yaml:"udp_send_interval"`
	FFTBands              int           `yaml:"fft_bands"`
}

// Default returns a Config populated with the engine's built-in defaults,
// before any YAML file or CLI flags are applied.
func Default() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Engine: EngineConfig{
			SampleRate:     DefaultSampleRate,
			BlockSize:      DefaultBlockSize,
			OutputChannels: DefaultOutputChannels,
		},
		Device: DeviceConfig{
			OutputDeviceID: DefaultDeviceID,
			LowLatency:     DefaultLowLatency,
		},
		Bounce: BounceConfig{
			Format:   "wav",
			Duration: 5.0,
		},
		Monitor: MonitorConfig{
			HTTPAddr:              DefaultMonitorHTTPAddr,
			WebSocketSendInterval: 33 * time.Millisecond,
			UDPTargetAddr:         "127.0.0.1:9090",
			UDPSendInterval:       33 * time.Millisecond,
			FFTBands:              32,
		},
	}
}

// Load reads a YAML config file at path and overlays it onto the
// built-in defaults. An empty path, or a path that does not exist, is
// not an error: Load returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with at all; it does
// not second-guess values that are merely unusual.
func (c *Config) Validate() error {
	if c.Engine.SampleRate < MinSampleRate || c.Engine.SampleRate > MaxSampleRate {
		return fmt.Errorf("engine.sample_rate %v outside [%v, %v]", c.Engine.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.Engine.BlockSize < MinBlockSize || c.Engine.BlockSize > MaxBlockSize {
		return fmt.Errorf("engine.block_size %v outside [%v, %v]", c.Engine.BlockSize, MinBlockSize, MaxBlockSize)
	}
	if c.Engine.OutputChannels <= 0 {
		return fmt.Errorf("engine.output_channels must be positive, got %d", c.Engine.OutputChannels)
	}
	return nil
}
