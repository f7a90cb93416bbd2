package main

import (
	"context"
	"errors"
	"os"

	"github.com/quietfall/gainbot/internal/library"
	"github.com/quietfall/gainbot/internal/services"
	"github.com/quietfall/gainbot/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var store *library.Store
	if _, err := os.Stat(config.Database.Path); err == nil {
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			logger.Fatalf("failed to open database: %v", err)
		}
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if store, err = library.Open(db); err != nil {
			logger.Fatalf("failed to load library: %v", err)
		}
	} else {
		logger.Warn("database not found, starting with an empty in-memory library; run `gainbot setup database` to persist", "path", config.Database.Path)
		store = library.NewMemory()
	}

	var notifier services.Notifier
	if config.Notify.WebhookURL != "" {
		notifier = services.NewWebhookNotifier(config.Notify.WebhookURL, logger)
	} else {
		notifier = services.NewLogNotifier(logger)
	}

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Store:    store,
		Resolver: services.NewProviderClient(config.Provider),
		Analyzer: services.NewFFmpegAnalyzer(config.ReplayGain),
		Notifier: notifier,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "gainbot",
		Usage:    "Playlist library management with bulk ReplayGain maintenance",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
