package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/Desoky231/Ramses-VR/internal/audio"
	"github.com/Desoky231/Ramses-VR/internal/backend"
	"github.com/Desoky231/Ramses-VR/internal/capture"
	"github.com/Desoky231/Ramses-VR/internal/config"
	"github.com/Desoky231/Ramses-VR/internal/input"
	"github.com/Desoky231/Ramses-VR/internal/logging"
	"github.com/Desoky231/Ramses-VR/internal/permissions"
	"github.com/Desoky231/Ramses-VR/internal/respond"
	"github.com/Desoky231/Ramses-VR/internal/tray"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	configPath := flag.StringP("config", "c", "", "Config file path (defaults to the platform config dir)")
	envFile := flag.StringP("env", "e", ".env", "Env file path")
	logLevel := flag.StringP("log", "l", "", "Log level override (debug, info, warn, error)")
	flag.Parse()

	godotenv.Load(*envFile)

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		// Use default logger if config fails to load
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	log := logging.NewWithLevel(level)

	// macOS requires explicit microphone approval before capture works
	if err := permissions.EnsurePermissions(); err != nil {
		log.Fatal().Err(err).Msg("Required permissions not granted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize audio capture
	mic, err := audio.New(cfg.Capture.DeviceID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize audio")
	}
	defer mic.Close()

	// Pick the backend: the Ramses endpoint when configured, OpenAI otherwise
	var transport backend.Transport
	if cfg.Backend.URL != "" {
		transport = backend.NewHTTPTransport(cfg.Backend.URL)
		log.Info().Str("url", cfg.Backend.URL).Msg("Using Ramses backend")
	} else {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			log.Fatal().Msg("No backend.url configured and OPENAI_API_KEY not set")
		}
		transport = backend.NewOpenAITransport(apiKey, cfg.Backend.OpenAIModel)
		log.Info().Str("model", cfg.Backend.OpenAIModel).Msg("Using OpenAI fallback backend")
	}

	responder := respond.New(log, cfg.Respond.PlayReply, cfg.Respond.CopyTranscript)

	// Create tray UI first (status sink for the controller and sender)
	trayUI := tray.New(mic, cfg, log, Version, Commit, cancel)

	sender := backend.NewService(backend.ServiceConfig{
		Transport: transport,
		Responder: responder,
		Status:    trayUI,
		Timeout:   time.Duration(cfg.Backend.TimeoutSeconds * float64(time.Second)),
		Logger:    log,
	})
	go sender.Run(ctx)

	// Trigger state streams in from the headset
	source := input.NewHeadsetSource(cfg.Input.HeadsetURL, log)
	go source.Run(ctx)

	controller := capture.New(capture.Config{
		Device: mic,
		Sender: sender,
		Source: source,
		Settings: capture.Settings{
			SampleRate:              cfg.Capture.SampleRate,
			MaxDurationSeconds:      cfg.Capture.MaxDurationSeconds,
			MinValidDurationSeconds: cfg.Capture.MinValidDurationSeconds,
			PollInterval:            time.Second / time.Duration(cfg.Capture.PollHz),
		},
		Logger: log,
		Status: trayUI,
	})
	go controller.Run(ctx)

	log.Info().Str("version", Version).Msg("ramses-voiced starting...")

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		controller.Shutdown()
		cancel()
		os.Exit(0)
	}()

	// Start tray UI - MUST run on main thread
	if err := trayUI.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Tray error")
	}
}
