// Package logging builds the tool's slog loggers and carries them through
// context.Context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"math"
	"strings"
)

// ParseLevel maps a level name to a slog.Level. Unknown names map to warn.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New creates a logger writing to w. The level is read from level on every
// record, so callers may raise it after construction. format is "json" or
// anything else for text.
func New(level *slog.LevelVar, format string, w io.Writer) *slog.Logger {
	if level == nil {
		level = new(slog.LevelVar)
		level.Set(slog.LevelWarn)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
}

// key is unexported to prevent collisions with context keys from other packages.
type key struct{}

var loggerKey = key{}

// WithLogger returns a new context with logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from ctx, or a discarding logger when ctx
// carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return Discard()
}
