package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wildfire-explorer/internal/config"
)

func TestNewLogger_UsesConfiguredLevel(t *testing.T) {
	ctx := context.Background()

	debug := NewLogger(&config.Config{LogLevel: "debug", LogFormat: "text"})
	require.NotNil(t, debug)
	assert.True(t, debug.Enabled(ctx, slog.LevelDebug))

	info := NewLogger(&config.Config{LogLevel: "info", LogFormat: "json"})
	require.NotNil(t, info)
	assert.False(t, info.Enabled(ctx, slog.LevelDebug))
	assert.True(t, info.Enabled(ctx, slog.LevelInfo))

	errOnly := NewLogger(&config.Config{LogLevel: "error", LogFormat: "json"})
	assert.False(t, errOnly.Enabled(ctx, slog.LevelWarn))
	assert.True(t, errOnly.Enabled(ctx, slog.LevelError))
}
