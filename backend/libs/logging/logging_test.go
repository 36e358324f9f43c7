package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	assert.Equal(t, zapcore.DebugLevel, levelFromEnv(zapcore.InfoLevel))

	t.Setenv("LOG_LEVEL", "loud")
	assert.Equal(t, zapcore.WarnLevel, levelFromEnv(zapcore.WarnLevel))
}

func TestLoggersBuild(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	logger, err := NewLogger("meter-service")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	console, err := NewConsoleLogger("solarmon")
	require.NoError(t, err)
	assert.False(t, console.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, console.Core().Enabled(zapcore.WarnLevel))
}
