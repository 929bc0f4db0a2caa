package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}

	if cfg.Capture.SampleRate != 44100 {
		t.Errorf("expected default sample rate 44100, got %d", cfg.Capture.SampleRate)
	}
	if cfg.Capture.MinValidDurationSeconds != 0.25 {
		t.Errorf("expected default min duration 0.25, got %v", cfg.Capture.MinValidDurationSeconds)
	}
	if cfg.Capture.MaxDurationSeconds != 30 {
		t.Errorf("expected default max duration 30, got %v", cfg.Capture.MaxDurationSeconds)
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"capture": {"sample_rate": 16000, "max_duration_seconds": 10, "min_valid_duration_seconds": 0.5, "poll_hz": 60}, "log_level": "debug"}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Capture.SampleRate != 16000 {
		t.Errorf("expected sample rate 16000, got %d", cfg.Capture.SampleRate)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.LogLevel)
	}
	// Untouched sections keep defaults
	if cfg.Backend.TimeoutSeconds != 30 {
		t.Errorf("expected default backend timeout, got %v", cfg.Backend.TimeoutSeconds)
	}
	if !cfg.Respond.PlayReply {
		t.Error("expected default play_reply true")
	}
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults, got %v", err)
	}
	if cfg.Capture.SampleRate != Defaults().Capture.SampleRate {
		t.Error("expected defaults for missing file")
	}
}

func TestValidateRejectsBadDurations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample rate", func(c *Config) { c.Capture.SampleRate = 0 }},
		{"negative max duration", func(c *Config) { c.Capture.MaxDurationSeconds = -1 }},
		{"negative min duration", func(c *Config) { c.Capture.MinValidDurationSeconds = -0.1 }},
		{"min equal to max", func(c *Config) {
			c.Capture.MinValidDurationSeconds = 30
			c.Capture.MaxDurationSeconds = 30
		}},
		{"min above max", func(c *Config) {
			c.Capture.MinValidDurationSeconds = 31
		}},
		{"zero poll rate", func(c *Config) { c.Capture.PollHz = 0 }},
		{"zero backend timeout", func(c *Config) { c.Backend.TimeoutSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateAllowsZeroMinDuration(t *testing.T) {
	cfg := Defaults()
	cfg.Capture.MinValidDurationSeconds = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("min duration 0 should be valid, got %v", err)
	}
}
