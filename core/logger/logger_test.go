package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookshelf/core/logger"
)

type ctxKey struct{}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("service", "bookshelf")),
	)
	log.Info("ready", logger.Component("test"))

	out := decode(t, &buf)
	assert.Equal(t, "ready", out["msg"])
	assert.Equal(t, "bookshelf", out["service"])
	assert.Equal(t, "test", out["component"])
}

func TestNew_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_ContextExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
			id, ok := ctx.Value(ctxKey{}).(string)
			return slog.String("request_id", id), ok
		}),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	log.With("k", "v").InfoContext(ctx, "with value")
	out := decode(t, &buf)
	assert.Equal(t, "req-1", out["request_id"])
	assert.Equal(t, "v", out["k"])

	buf.Reset()
	log.InfoContext(context.Background(), "without value")
	out = decode(t, &buf)
	assert.NotContains(t, out, "request_id")
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithEnvironment("production", "bookshelf"), logger.WithOutput(&buf))
	log.Debug("dropped")
	log.Info("kept")

	out := decode(t, &buf)
	assert.Equal(t, "kept", out["msg"])
	assert.Equal(t, "production", out["env"])

	buf.Reset()
	dev := logger.New(logger.WithEnvironment("anything", "bookshelf"), logger.WithOutput(&buf))
	dev.Debug("dev debug")
	assert.Contains(t, buf.String(), "env=development")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("debug", slog.LevelInfo))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("WARN", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("", slog.LevelInfo))
	assert.Equal(t, slog.LevelError, logger.ParseLevel("loud", slog.LevelError))
}

func TestNoop(t *testing.T) {
	t.Parallel()
	assert.False(t, logger.Noop().Enabled(context.Background(), slog.LevelError))
}
