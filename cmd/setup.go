package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/flicklog/internal/repositories"
	"github.com/desertthunder/flicklog/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase prepares the configured storage backend; SQL backends are migrated.
//
// A missing config file is created from the template first.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = r.config
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
		}
	}
	config.ApplyEnv(os.Getenv)

	if err := config.Validate(); err != nil {
		return err
	}

	r.logger.Info("initializing storage", "backend", config.Storage.Backend)
	store, err := repositories.Open(config)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	if _, err := store.ListEntries(ctx, "setup-check"); err != nil {
		return fmt.Errorf("storage check failed: %w", err)
	}

	r.logger.Infof("setup complete for %s storage", config.Storage.Backend)
	return r.writePlain("✓ Storage ready (%s)\n", config.Storage.Backend)
}

// SetupConfig writes the template configuration.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set DISCORD_TOKEN, TMDB_API_KEY and OPENAI_API_KEY (or edit %s)\n", path)
	r.writePlain("2. Run 'flicklog setup database'\n")
	r.writePlain("3. Run 'flicklog bot'\n")
	return nil
}
