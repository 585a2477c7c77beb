package backend

import (
	"fmt"

	"folio/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		// SQLite configuration
		SQLiteDBPath: appConfig.SQLiteDBPath,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		// Google Sheets configuration
		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
		GoogleAppCredentials:     appConfig.GoogleAppCredentials,

		// Worksheet names
		AssetSheet:      appConfig.AssetSheet,
		InvestmentSheet: appConfig.InvestmentSheet,
		DividendSheet:   appConfig.DividendSheet,
		SettingsSheet:   appConfig.SettingsSheet,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
		// AMQP is optional, so we don't validate it

	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}

		// Must have service account credentials in one of the three forms
		hasJSON := c.GoogleServiceAccountJSON != ""
		hasFile := c.GoogleServiceAccountFile != ""
		hasAppCreds := c.GoogleAppCredentials != ""
		if !hasJSON && !hasFile && !hasAppCreds {
			return fmt.Errorf("service account credentials must be provided for sheets backend")
		}

	case MemoryBackend:
		// Memory backend seeds its own demo data
	}

	for _, sheet := range []string{c.AssetSheet, c.InvestmentSheet, c.DividendSheet, c.SettingsSheet} {
		if sheet == "" {
			return fmt.Errorf("worksheet names cannot be empty")
		}
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{SQLiteBackend, SheetsBackend, MemoryBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	strings := make([]string, len(types))
	for i, t := range types {
		strings[i] = t.String()
	}
	return strings
}
