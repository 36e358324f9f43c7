package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
	assert.Equal(t, time.Hour, cfg.TokenTTL())
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Error(t, cfg.RequireDatabase())

	_, ok := cfg.TelegramChatID()
	assert.False(t, ok)
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solarmon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: "9090"
database:
  dsn: postgres://file
telegram:
  chatId: "12345"
  timeoutSeconds: 2
app:
  timezone: Australia/Sydney
`), 0o600))
	t.Setenv("SOLARMON_POSTGRES_DSN", "postgres://env")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddress())
	assert.Equal(t, "postgres://env", cfg.Database.DSN)
	assert.NoError(t, cfg.RequireDatabase())
	assert.Equal(t, 2*time.Second, cfg.TelegramTimeout())
	assert.Equal(t, "Australia/Sydney", cfg.Location().String())

	id, ok := cfg.TelegramChatID()
	assert.True(t, ok)
	assert.Equal(t, int64(12345), id)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	t.Setenv("SOLARMON_TIMEZONE", "Mars/Olympus")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SOLARMON_TIMEZONE", "UTC")
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")
	_, err = Load()
	assert.Error(t, err)
}
