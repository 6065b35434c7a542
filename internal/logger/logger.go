// Package logger configures log/slog with JSON output and source locations.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup initializes the global slog logger writing JSON to stdout.
func Setup(level slog.Level) {
	slog.SetDefault(New(os.Stdout, level))
}

// New returns a JSON logger with source locations that writes to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	})
	return slog.New(handler).With("service", "agentdesk")
}

// ParseLevel converts a string log level to slog.Level.
// Valid values: "debug", "info", "warn" (or "warning"), "error", in any case.
// Unrecognized values default to info level.
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
