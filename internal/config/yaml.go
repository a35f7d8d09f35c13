// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ApplyEnvOverrides layers environment variables on top of whatever Load
// produced, for the handful of settings worth overriding without editing
// a config file (container deployments, CI runs).
func (c *Config) ApplyEnvOverrides() {
	if val, ok := os.LookupEnv("AURAGRAPH_LOG_LEVEL"); ok {
		c.LogLevel = val
	}
	if val, ok := os.LookupEnv("AURAGRAPH_SAMPLE_RATE"); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.Engine.SampleRate = f
		}
	}
	if val, ok := os.LookupEnv("AURAGRAPH_MONITOR_UDP_ENABLED"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Monitor.UDPEnabled = b
		}
	}
	if val, ok := os.LookupEnv("AURAGRAPH_MONITOR_UDP_TARGET"); ok {
		c.Monitor.UDPTargetAddr = val
	}
	if val, ok := os.LookupEnv("AURAGRAPH_MONITOR_UDP_INTERVAL"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			c.Monitor.UDPSendInterval = d
		}
	}
}

// Save serializes cfg back to YAML at path, for a `config dump` style
// command to write out the fully-resolved settings (defaults + file +
// env + flags) a run actually used.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
