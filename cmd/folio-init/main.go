package main

import (
	"context"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"folio/internal/backend"
	"folio/internal/cli"
	"folio/internal/config"
	"folio/internal/core"
	applog "folio/internal/log"
)

// folio-init prepares a fresh backend for first use: it proves the
// configured credentials work, seeds header rows on empty worksheets
// and flags columns that no longer match the expected layout.
func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(os.Getenv("LOG_LEVEL")),
		Component: "folio-init",
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration",
			"error", err, "valid_backends", backend.GetBackendTypeStrings())
		os.Exit(1)
	}

	ctx := context.Background()
	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendConfig)
	if err != nil {
		logger.Error("Failed to initialize data backend", "backend", cfg.DataBackend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}
	}()

	worksheets := []cli.Worksheet{
		{Name: cfg.AssetSheet, Headers: core.AssetHeaders},
		{Name: cfg.InvestmentSheet, Headers: core.TransactionHeaders},
		{Name: cfg.DividendSheet, Headers: core.DividendHeaders},
		{Name: cfg.SettingsSheet, Headers: core.SettingsHeaders},
	}

	statuses, err := cli.EnsureWorksheets(ctx, result.Store, worksheets)
	if err != nil {
		logger.Error("Bootstrap failed", "backend", cfg.DataBackend, "error", err)
		os.Exit(1)
	}

	drifted := false
	for _, s := range statuses {
		switch {
		case s.Created:
			logger.Info("Header row created", "sheet", s.Sheet)
		case !s.Ready():
			drifted = true
			logger.Warn("Header drift detected",
				"sheet", s.Sheet, "drift", strings.Join(s.Drift, "; "))
		default:
			logger.Info("Worksheet ready", "sheet", s.Sheet, "rows", s.Rows)
		}
	}

	if drifted {
		logger.Error("Backend needs attention before the server can trust it")
		os.Exit(1)
	}
	logger.Info("Backend ready", "backend", cfg.DataBackend)
}
