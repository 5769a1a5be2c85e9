/*
Package tlog is a custom log package which uses github.com/lmittmann/tint.
*/
package tlog

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// ParseLevel converts level name to slog.Level. Empty level falls back to
// LOG_LEVEL environment variable, unknown values fall back to info.
func ParseLevel(level string) slog.Level {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}

	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New instantiates custom logger writing to w. Nil w means stderr.
func New(w io.Writer, level string, colorize bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	if os.Getenv("LOG_COLORIZE") != "" {
		colorize = true
	}

	opts := &tint.Options{
		Level:      ParseLevel(level),
		TimeFormat: "15:04:05",
		NoColor:    !colorize,
	}

	return slog.New(tint.NewHandler(w, opts))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(tint.NewHandler(io.Discard, &tint.Options{Level: slog.LevelError + 1}))
}
