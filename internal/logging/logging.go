// Package logging configures the process-wide structured logger:
// slog.NewJSONHandler over os.Stdout installed via slog.SetDefault in
// production, with a plain-text handler available for local development.
package logging

import (
	"log/slog"
	"os"
)

// Format selects the slog handler shape.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// New builds and installs the default structured logger as the process
// default via slog.SetDefault.
func New(format Format, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == FormatText {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel converts a config string ("debug", "info", "warn", "error")
// into a slog.Level, defaulting to Info on an unrecognized value.
func ParseLevel(s string) slog.Level {
	switch s {
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
