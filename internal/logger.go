package internal

import (
	"io"
	"log/slog"
)

// NewLogger builds the process-wide logger. The ENV setting picks the
// handler: "development" logs human-readable text, anything else logs JSON
// lines for ingestion. The level comes from LOG_LEVEL and falls back to info
// when unset or unknown.
func NewLogger(w io.Writer, env, level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if env == "development" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}
