// Package logger provides a logger implementation using slog
package logger

import (
	"log/slog"
	"os"

	"github.com/golang-cz/devslog"

	"github.com/8thgencore/ledgerkv/internal/config"
)

// New creates a new logger with configured formatting and logging level.
// An unknown level falls back to info.
func New(env config.Env, level string) *slog.Logger {
	var log *slog.Logger

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	if env == config.Prod {
		slogOpts := &slog.HandlerOptions{
			AddSource: true,
			Level:     lvl,
		}
		log = slog.New(slog.NewJSONHandler(os.Stdout, slogOpts))
	} else {
		slogOpts := &slog.HandlerOptions{
			AddSource: true,
			Level:     lvl,
		}
		opts := &devslog.Options{
			HandlerOptions:    slogOpts,
			MaxSlicePrintSize: 10,
			SortKeys:          true,
			NewLineAfterLog:   true,
			StringerFormatter: true,
			TimeFormat:        "[15:04:05.000]",
		}

		log = slog.New(devslog.NewHandler(os.Stdout, opts))
	}

	// Set the logger as the default logger
	slog.SetDefault(log)

	return log
}
