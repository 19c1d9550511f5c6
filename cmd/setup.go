package main

import (
	"context"
	"os"

	"github.com/desertthunder/socotk/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a default config file when none exists and initializes the store.
//
// An existing store is migrated in place; its settings and cached art are kept.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("using existing config file", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else if config, err := shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load created config, using defaults", "error", err)
		} else {
			if err := shared.ApplyEnv(config); err != nil {
				return err
			}
			r.config = config
		}
	}

	if err := r.config.Validate(); err != nil {
		return err
	}

	store, err := r.Store()
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for store: %v", store.Path())
	r.writePlain("✓ Store ready at %s\n", store.Path())
	r.writePlain("Bridge: %s\n", r.config.Bridge.URL)
	return nil
}
