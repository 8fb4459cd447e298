package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelWarn,
		"loud":    slog.LevelWarn,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		level := new(slog.LevelVar)
		level.Set(slog.LevelInfo)

		New(level, "json", &buf).Info("hello", "k", "v")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "v", record["k"])
	})

	t.Run("level can be raised after construction", func(t *testing.T) {
		var buf bytes.Buffer
		level := new(slog.LevelVar)
		level.Set(slog.LevelWarn)
		logger := New(level, "text", &buf)

		logger.Debug("hidden")
		assert.Empty(t, buf.String())

		level.Set(slog.LevelDebug)
		logger.Debug("shown")
		assert.Contains(t, buf.String(), "msg=shown")
	})

	t.Run("nil level defaults to warn", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(nil, "text", &buf)

		logger.Info("hidden")
		logger.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(nil, "text", &buf)

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	assert.NotNil(t, FromContext(context.Background()))
}
