package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

type Config struct {
	Capture  CaptureConfig `json:"capture"`
	Input    InputConfig   `json:"input"`
	Backend  BackendConfig `json:"backend"`
	Respond  RespondConfig `json:"respond"`
	LogLevel string        `json:"log_level"`
}

type CaptureConfig struct {
	SampleRate              int     `json:"sample_rate"`
	MaxDurationSeconds      float64 `json:"max_duration_seconds"`
	MinValidDurationSeconds float64 `json:"min_valid_duration_seconds"`
	DeviceID                string  `json:"device_id"`
	PollHz                  int     `json:"poll_hz"`
}

type InputConfig struct {
	HeadsetURL string `json:"headset_url"`
}

type BackendConfig struct {
	URL            string  `json:"url"`
	TimeoutSeconds float64 `json:"timeout_seconds"`
	OpenAIModel    string  `json:"openai_model"`
}

type RespondConfig struct {
	PlayReply      bool `json:"play_reply"`
	CopyTranscript bool `json:"copy_transcript"`
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	return LoadFile(configPath())
}

// LoadFile reads the config from the given path, filling in defaults first
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()

	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		Capture: CaptureConfig{
			SampleRate:              44100,
			MaxDurationSeconds:      30,
			MinValidDurationSeconds: 0.25,
			DeviceID:                "",
			PollHz:                  90, // headset frame rate
		},
		Input: InputConfig{
			HeadsetURL: "ws://127.0.0.1:8712/trigger",
		},
		Backend: BackendConfig{
			URL:            "",
			TimeoutSeconds: 30,
			OpenAIModel:    "gpt-4o-mini",
		},
		Respond: RespondConfig{
			PlayReply:      true,
			CopyTranscript: false,
		},
		LogLevel: "info",
	}
}

// Validate checks the capture and backend constraints
func (c *Config) Validate() error {
	if c.Capture.SampleRate <= 0 {
		return fmt.Errorf("capture.sample_rate must be > 0, got %d", c.Capture.SampleRate)
	}
	if c.Capture.MaxDurationSeconds <= 0 {
		return fmt.Errorf("capture.max_duration_seconds must be > 0, got %v", c.Capture.MaxDurationSeconds)
	}
	if c.Capture.MinValidDurationSeconds < 0 {
		return fmt.Errorf("capture.min_valid_duration_seconds must be >= 0, got %v", c.Capture.MinValidDurationSeconds)
	}
	if c.Capture.MinValidDurationSeconds >= c.Capture.MaxDurationSeconds {
		return fmt.Errorf("capture.min_valid_duration_seconds (%v) must be < max_duration_seconds (%v)",
			c.Capture.MinValidDurationSeconds, c.Capture.MaxDurationSeconds)
	}
	if c.Capture.PollHz <= 0 {
		return fmt.Errorf("capture.poll_hz must be > 0, got %d", c.Capture.PollHz)
	}
	if c.Backend.TimeoutSeconds <= 0 {
		return fmt.Errorf("backend.timeout_seconds must be > 0, got %v", c.Backend.TimeoutSeconds)
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := configPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "ramses-voiced", "config.json")
}
