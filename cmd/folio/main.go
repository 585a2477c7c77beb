package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"folio/internal/backend"
	"folio/internal/config"
	apphttp "folio/internal/http"
	applog "folio/internal/log"
	"folio/internal/services"
)

func main() {
	// .env is a local development convenience; deployments set real env.
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(os.Getenv("LOG_LEVEL")),
		Component: "folio",
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

	result, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), backendConfig)
	if err != nil {
		logger.Error("Failed to initialize data backend", "backend", cfg.DataBackend, "error", err)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	// A typed nil would dodge the publisher's nil checks, so only assign
	// through the interface when a client actually exists.
	var publisher services.SyncPublisher
	if result.Publisher != nil {
		publisher = result.Publisher
	}

	svc := apphttp.Services{
		Assets:      services.NewAssetService(result.Store, cfg.AssetSheet, publisher),
		Investments: services.NewInvestmentService(result.Store, cfg.InvestmentSheet, publisher),
		Dividends:   services.NewDividendService(result.Store, cfg.DividendSheet, publisher),
		Settings:    services.NewSettingsService(result.Store, cfg.SettingsSheet),
		Dashboard:   services.NewDashboardService(result.Store, cfg.AssetSheet, cfg.InvestmentSheet, cfg.SettingsSheet),
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, svc, result.Store, apphttp.Options{
		RateLimitRPM: cfg.RateLimitRPM,
		ProbeSheet:   cfg.SettingsSheet,
	})
	if err != nil {
		logger.Error("Failed to build HTTP server", "error", err)
		os.Exit(1)
	}

	srv.ReadTimeout = cfg.HTTPReadTimeout
	srv.WriteTimeout = cfg.HTTPWriteTimeout
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting folio server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
