package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/socotk/internal/services"
	"github.com/desertthunder/socotk/internal/shared"
	"github.com/urfave/cli/v3"
)

// envConfigPath overrides the default config.toml location.
const envConfigPath = "SOCOTK_CONFIG"

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(); err != nil {
		logger.Warn("ignoring .env", "error", err)
	}

	configPath := "config.toml"
	if v := os.Getenv(envConfigPath); v != "" {
		configPath = v
	}

	config, err := resolveConfig(configPath, logger)
	if err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	client := &http.Client{Timeout: config.Bridge.Timeout()}
	apiService := services.NewAPIService(config.Bridge.URL, client)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		API:        apiService,
		Fetcher:    services.NewArtFetcher(nil, config.Art.RateLimit, time.Duration(config.Art.TimeoutSeconds)*time.Second),
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "socotk",
		Usage:    "Browse and control Sonos speakers on the local network",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = app.Run(ctx, os.Args)
	stop()

	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to close store", "error", cerr)
	}

	switch {
	case err == nil:
	case isUsageError(err):
		logger.Error(err)
		os.Exit(2)
	default:
		logger.Fatalf("application error: %v", err)
	}
}

// resolveConfig loads configPath over the defaults when it exists, applies
// environment overrides and validates the result. An unreadable file falls
// back to the defaults with a warning.
func resolveConfig(configPath string, logger *log.Logger) (*shared.Config, error) {
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	if err := shared.ApplyEnv(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
