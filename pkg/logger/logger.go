// Package logger provides structured logging setup for lon-tz binaries.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a JSON logger on stdout at the named level and installs
// it as the slog default
func NewLogger(level string) *slog.Logger {
	logger := New(ParseLevel(level), os.Stdout)
	slog.SetDefault(logger)
	return logger
}

// New creates a JSON logger writing to w at the given level
func New(level slog.Level, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps a level name to a slog level. Unknown and empty names are info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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
