// Package log centralizes structured logging setup and the shared
// field-name vocabulary used across components.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup configures the default slog logger with a text handler at the
// level given by the LOG_LEVEL environment variable (default: info) and
// returns it.
func Setup() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	}))
	slog.SetDefault(logger)
	return logger
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
