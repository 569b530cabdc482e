// weekplan is the terminal client for the weekplan server.
package main

import (
	"log/slog"
	"os"

	"github.com/felixgeelhaar/weekplan/adapter/cli"
	"github.com/felixgeelhaar/weekplan/internal/dashboard/store"
	"github.com/felixgeelhaar/weekplan/internal/dashboard/sync"
	"github.com/felixgeelhaar/weekplan/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{AppEnv: "development", ServerURL: "http://localhost:8080"}
	}

	level := slog.LevelWarn
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	cli.SetLogger(logger)

	if cfg.SessionToken != "" {
		client := sync.NewHTTPClient(sync.HTTPClientConfig{
			BaseURL: cfg.ServerURL,
			Token:   cfg.SessionToken,
		}, logger)

		st := store.New()
		cli.SetApp(&cli.App{
			Engine: sync.NewEngine(st, client, logger),
			Store:  st,
			Config: cfg,
		})
	} else {
		logger.Warn("WEEKPLAN_TOKEN not set, commands that talk to the server will fail")
	}

	cli.Execute()
}
