package backend

import (
	"context"

	"folio/internal/amqp"
	"folio/internal/sheets"
)

// CleanupFunc represents a cleanup function for backend resources
type CleanupFunc func() error

// BackendResult contains the row store, the optional sync publisher and
// an optional cleanup function
type BackendResult struct {
	Store     sheets.RowStore
	Publisher *amqp.Client
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	GoogleAppCredentials     string

	// Worksheet names, shared by every backend
	AssetSheet      string
	InvestmentSheet string
	DividendSheet   string
	SettingsSheet   string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
