package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/neonsurge/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", Format: "json"}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
}

func TestNewLogger_Console(t *testing.T) {
	cfg := config.LoggingConfig{Level: "debug", Format: "console"}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := config.LoggingConfig{Level: "trace", Format: "json"}
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", Format: "xml"}
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}

func TestZapReporter_LogsAtWarn(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := NewZapReporter(zap.New(core))
	r.InvalidInput("damage", -3)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "invalid input rejected", entries[0].Message)
	assert.Equal(t, "damage", entries[0].ContextMap()["op"])
}

func TestCountingReporter(t *testing.T) {
	r := NewCountingReporter()
	r.InvalidInput("damage", -1)
	r.InvalidInput("damage", -2)
	r.InvalidInput("exp", -1)
	assert.Equal(t, 2, r.Count("damage"))
	assert.Equal(t, 1, r.Count("exp"))
	assert.Equal(t, 0, r.Count("other"))
	assert.Equal(t, 3, r.Total())
}
