package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"folio/internal/amqp"
	"folio/internal/config"
	applog "folio/internal/log"
	gsheet "folio/internal/sheets/google"
	"folio/internal/storage"
	"folio/internal/worker"
)

func main() {
	// .env is a local development convenience; deployments set real env.
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(os.Getenv("LOG_LEVEL")),
		Component: "folio-worker",
	})
	applog.SetDefault(logger)

	logger.Info("Starting folio-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker replays the SQLite mirror the server writes into the
	// real spreadsheet, so both ends are required here.
	mirror, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite mirror", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer mirror.Close()

	target, err := gsheet.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to the message broker", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncWorker := worker.NewSyncWorker(mirror, target)

	// Push anything the spreadsheet missed while the worker was down.
	worksheets := []string{cfg.AssetSheet, cfg.InvestmentSheet, cfg.DividendSheet, cfg.SettingsSheet}
	logger.Info("Running startup resync", "worksheets", worksheets)
	if err := syncWorker.Resync(ctx, worksheets); err != nil {
		logger.Error("Startup resync failed", "error", err)
		// Keep consuming; later events retry the same rows.
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler := func(event *amqp.RowEvent) error {
			return syncWorker.HandleRowEvent(ctx, event)
		}
		if err := amqpClient.ConsumeRowEvents(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Event consumption failed", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
	}

	cancel()
	select {
	case <-done:
		logger.Info("Worker stopped gracefully")
	case <-time.After(cfg.ShutdownTimeout):
		logger.Warn("Shutdown timeout reached before the consumer drained")
	}
}
