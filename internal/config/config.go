package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port             string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	ShutdownTimeout  time.Duration
	RateLimitRPM     int

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	GoogleAppCredentials     string

	// Worksheet names
	AssetSheet      string
	InvestmentSheet string
	DividendSheet   string
	SettingsSheet   string

	// Backend selection
	DataBackend string
}

func Load() *Config {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		HTTPReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		RateLimitRPM:     getEnvInt("RATE_LIMIT_RPM", 60),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/folio.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "folio"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "sync_rows"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleAppCredentials:     getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		AssetSheet:      getEnv("WORKSHEET_ASSETS", "Current Asset"),
		InvestmentSheet: getEnv("WORKSHEET_INVESTMENTS", "Investment"),
		DividendSheet:   getEnv("WORKSHEET_DIVIDENDS", "Dividends"),
		SettingsSheet:   getEnv("WORKSHEET_SETTINGS", "Settings"),

		DataBackend: getEnv("DATA_BACKEND", "memory"),
	}

	return cfg
}

// Validate checks the configuration and returns every problem in one error.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "sheets", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.DataBackend == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}

		hasJSON := c.GoogleServiceAccountJSON != ""
		hasFile := c.GoogleServiceAccountFile != ""
		hasAppCreds := c.GoogleAppCredentials != ""
		if !hasJSON && !hasFile && !hasAppCreds {
			errors = append(errors, "one of GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS must be provided for sheets backend")
		}

		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	for name, value := range map[string]string{
		"WORKSHEET_ASSETS":      c.AssetSheet,
		"WORKSHEET_INVESTMENTS": c.InvestmentSheet,
		"WORKSHEET_DIVIDENDS":   c.DividendSheet,
		"WORKSHEET_SETTINGS":    c.SettingsSheet,
	} {
		if strings.TrimSpace(value) == "" {
			errors = append(errors, fmt.Sprintf("worksheet name %s cannot be empty", name))
		}
	}

	if c.RateLimitRPM < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitRPM))
	}
	if c.HTTPReadTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid HTTP read timeout %v: must be at least 1 second", c.HTTPReadTimeout))
	}
	if c.HTTPWriteTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid HTTP write timeout %v: must be at least 1 second", c.HTTPWriteTimeout))
	}
	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
