// Package log configures the process-wide structured logger.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with a component tag attached to every record.
type Logger struct {
	*slog.Logger
	handler   slog.Handler
	component string
}

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	Component string
	// Handler overrides the default text handler when set.
	Handler slog.Handler
}

// DefaultConfig returns sensible defaults for logging.
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: "app",
	}
}

// New creates a logger with the given configuration. The component name
// rides along on every record emitted through it.
func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: config.Level,
		})
	}

	logger := slog.New(handler)
	if config.Component != "" {
		logger = logger.With("component", config.Component)
	}

	return &Logger{
		Logger:    logger,
		handler:   handler,
		component: config.Component,
	}
}

// WithComponent returns a logger tagged with a different component name.
// The tag replaces the original rather than stacking a second attribute.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    slog.New(l.handler).With("component", component),
		handler:   l.handler,
		component: component,
	}
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

// ParseLevel maps a level name to a slog.Level, defaulting to Info for
// anything it does not recognize.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefault installs the logger as the process default so package-level
// slog calls inherit it.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}
