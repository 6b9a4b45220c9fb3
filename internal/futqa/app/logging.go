package app

import (
	"io"
	"log/slog"
	"os"
)

// SetupLogging installs the default slog logger for the given level
// ("debug", "info", "warn", "error") and format ("text" or "json").
func SetupLogging(level, format string) *slog.Logger {
	return setupLogging(os.Stderr, level, format)
}

func setupLogging(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
