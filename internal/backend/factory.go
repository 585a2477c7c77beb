package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"folio/internal/amqp"
	"folio/internal/core"
	gsheet "folio/internal/sheets/google"
	"folio/internal/sheets/memory"
	"folio/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite mirror: %w", err)
	}

	for sheet, headers := range worksheetHeaders(config) {
		if err := store.EnsureHeaders(ctx, sheet, headers); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to seed headers for %s: %w", sheet, err)
		}
	}

	// Initialize AMQP publisher (optional); without it writes stay local.
	var publisher *amqp.Client
	if config.AMQPURL != "" {
		publisher, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", publisher != nil)

	cleanup := func() error {
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				f.logger.Warn("Failed to close AMQP client", "error", err)
			}
		}
		return store.Close()
	}

	return &BackendResult{
		Store:     store,
		Publisher: publisher,
		Cleanup:   cleanup,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend")

	return &BackendResult{
		Store:   cli,
		Cleanup: nil, // No cleanup needed for sheets backend
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	store := memory.New()
	seedDemoData(store, config)

	f.logger.Info("Initialized memory backend with demo data")

	return &BackendResult{
		Store:   store,
		Cleanup: nil, // No cleanup needed for memory backend
	}, nil
}

// worksheetHeaders maps each configured worksheet to its canonical header row.
func worksheetHeaders(config Config) map[string][]string {
	return map[string][]string{
		config.AssetSheet:      core.AssetHeaders,
		config.InvestmentSheet: core.TransactionHeaders,
		config.DividendSheet:   core.DividendHeaders,
		config.SettingsSheet:   core.SettingsHeaders,
	}
}

// seedDemoData fills a fresh memory store with a small portfolio so the app
// renders something useful out of the box.
func seedDemoData(store *memory.Store, config Config) {
	prev := demoMonth(-1)
	curr := demoMonth(0)

	store.Seed(config.AssetSheet, [][]any{
		toAny(core.AssetHeaders),
		{uuid.NewString(), demoDate(prev, 15), 2500, "BTC", "Crypto"},
		{uuid.NewString(), demoDate(prev, 15), 1100, "ETH", "Crypto"},
		{uuid.NewString(), demoDate(prev, 15), 4000, "VWCE", "Stocks"},
		{uuid.NewString(), demoDate(prev, 15), 1200, "Cash", "Cash"},
		{uuid.NewString(), demoDate(curr, 15), 2800, "BTC", "Crypto"},
		{uuid.NewString(), demoDate(curr, 15), 1050, "ETH", "Crypto"},
		{uuid.NewString(), demoDate(curr, 15), 4150, "VWCE", "Stocks"},
		{uuid.NewString(), demoDate(curr, 15), 950, "Cash", "Cash"},
	})

	store.Seed(config.InvestmentSheet, [][]any{
		toAny(core.TransactionHeaders),
		{uuid.NewString(), demoDate(prev, 10), "Deposit", "Cash", "Cash", "", "", 1500, "payroll"},
		{uuid.NewString(), demoDate(prev, 12), "Buy", "BTC", "Crypto", "0.01", "42000", -420, ""},
		{uuid.NewString(), demoDate(curr, 10), "Deposit", "Cash", "Cash", "", "", 1500, "payroll"},
		{uuid.NewString(), demoDate(curr, 12), "Buy", "VWCE", "Stocks", "3", "105.2", -315.6, ""},
	})

	store.Seed(config.DividendSheet, [][]any{
		toAny(core.DividendHeaders),
		{uuid.NewString(), demoDate(prev, 20), "VWCE", "Stocks", 12.5, "Yes", ""},
		{uuid.NewString(), demoDate(curr, 20), "VWCE", "Stocks", 13.1, "No", ""},
	})

	store.Seed(config.SettingsSheet, [][]any{
		toAny(core.SettingsHeaders),
		{"Crypto", "TRUE", "40", "BTC", "TRUE"},
		{"Stocks", "TRUE", "40", "ETH", "TRUE"},
		{"Cash", "TRUE", "20", "VWCE", "TRUE"},
		{"", "", "", "Cash", "TRUE"},
	})
}

// demoMonth returns the first day of the month offset from now. time.Date
// normalizes month zero to December of the previous year.
func demoMonth(offset int) time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
}

func demoDate(month time.Time, day int) string {
	return time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

func toAny(values []string) []any {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
