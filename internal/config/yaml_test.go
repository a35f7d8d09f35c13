// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoad_EmptyPath(t *testing.T) {
	t.Parallel()
	cfg, err := Load("")
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()
	cfg, err := Load("nonexistent.yaml")
	if err != nil {
		t.Errorf("missing file should fall back to defaults, got error %v", err)
	}
	if cfg.Engine.SampleRate != DefaultSampleRate {
		t.Errorf("expected default sample rate, got %v", cfg.Engine.SampleRate)
	}
}

func TestLoad_UnmarshalError(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, ":\n:bad")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Error("expected unmarshal error, got nil or wrong error")
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, "engine:\n  sample_rate: 48000\n  block_size: 256\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.SampleRate != 48000 || cfg.Engine.BlockSize != 256 {
		t.Fatalf("cfg.Engine = %+v, want overridden sample rate/block size", cfg.Engine)
	}
	if cfg.Engine.OutputChannels != DefaultOutputChannels {
		t.Fatalf("OutputChannels = %v, want default to survive a partial override", cfg.Engine.OutputChannels)
	}
}

func TestLoad_RejectsOutOfRangeSampleRate(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, "engine:\n  sample_rate: 1\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for sample rate below minimum")
	}
}
