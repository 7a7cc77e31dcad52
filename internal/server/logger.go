// Copyright 2025 The ephios team
// Licensed under the MIT license

package server

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/olewun/ephios/internal/config"
)

// setupLogger installs the process-wide slog logger from the log section
// of the configuration. Unknown levels fall back to info, unknown formats
// to the colored text handler.
func setupLogger(cfg config.LogConfig) {
	level := parseLogLevel(cfg.Level)

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	default:
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level: level,
			// Debug runs record source positions to locate failed
			// consequence executions quickly.
			AddSource: level <= slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
