// Package logging builds the application's central slog logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New creates a JSON slog logger writing to w at the given level string
// ("debug", "info", "warn", "error"; anything else means info).
func New(w io.Writer, logLevel string) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
