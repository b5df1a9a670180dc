package main

import (
	"context"
	"os"

	"github.com/desertthunder/flicklog/internal/services"
	"github.com/desertthunder/flicklog/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadDotEnv(); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}
	config.ApplyEnv(os.Getenv)
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	opts := RunnerOpts{Config: config, Logger: logger}

	if tmdb, err := services.NewTMDBServiceFromConfig(config.Credentials.TMDB); err == nil {
		opts.Searcher = tmdb
	} else {
		logger.Debug("movie search disabled", "reason", err)
	}
	if openai, err := services.NewOpenAIServiceFromConfig(config.Credentials.OpenAI); err == nil {
		opts.Recommender = openai
	} else {
		logger.Debug("recommendations disabled", "reason", err)
	}
	opts.Scraper = services.NewLetterboxdServiceFromConfig(config.Letterboxd)

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "flicklog",
		Usage:    "Movie watchlist bot for group chats",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
