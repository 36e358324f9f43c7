package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// isolate clears the environment the config loader reads.
func isolate(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CONFIG_FILE", "SOLARMON_POSTGRES_DSN", "TELEGRAM_BOT_TOKEN", "TELEGRAM_API_URL", "TELEGRAM_CHAT_ID", "SOLARMON_TIMEZONE"} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "migrate", "baseline", "stats", "chat-id", "hash-password"} {
		found, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, found.Name())
	}
	found, _, err := cmd.Find([]string{"baseline", "set"})
	require.NoError(t, err)
	assert.Equal(t, "set", found.Name())
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestHashPassword(t *testing.T) {
	out, err := execute(t, "hunter2\n", "hash-password", "--cost", "4")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))

	_, err = execute(t, "", "hash-password")
	assert.Error(t, err)
}

func TestDatabaseCommandsRequireDSN(t *testing.T) {
	isolate(t)
	for _, args := range [][]string{
		{"migrate"},
		{"baseline", "show"},
		{"baseline", "set", "--solar-inverter", "1", "--solar-meter", "2", "--export", "3", "--import", "4"},
		{"stats", "--month", "2024-01"},
	} {
		_, err := execute(t, "", args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "DSN", args)
	}
}

func TestBaselineSetRequiresAllCounters(t *testing.T) {
	isolate(t)
	_, err := execute(t, "", "baseline", "set", "--solar-inverter", "1")
	assert.Error(t, err)
}

func TestStatsFlags(t *testing.T) {
	isolate(t)
	_, err := execute(t, "", "stats", "--month", "2024-01", "--start", "2024-01-01")
	assert.Error(t, err)

	today := time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)

	q, err := (&StatsOptions{}).query(today)
	require.NoError(t, err)
	assert.True(t, q.start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, q.end.Equal(today))

	q, err = (&StatsOptions{Month: "2023-11"}).query(today)
	require.NoError(t, err)
	assert.True(t, q.monthly)
	assert.Equal(t, time.November, q.month)

	_, err = (&StatsOptions{Start: "2024-02-01", End: "2024-01-01"}).query(today)
	assert.Error(t, err)
	_, err = (&StatsOptions{Start: "Feb 1"}).query(today)
	assert.Error(t, err)
}

func TestChatID(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botabc/getUpdates", r.URL.Path)
		_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":1,"message":{"message_id":1,"chat":{"id":555,"first_name":"Jo","username":"jo"}}}]}`))
	}))
	defer srv.Close()
	t.Setenv("TELEGRAM_BOT_TOKEN", "abc")
	t.Setenv("TELEGRAM_API_URL", srv.URL)

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"chat-id"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "ID = 555 (Jo @jo)")
}

func TestChatIDWithoutToken(t *testing.T) {
	isolate(t)
	_, err := execute(t, "", "chat-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
}

func TestConsoleLoggerOverride(t *testing.T) {
	opts := &RootOptions{LoggerFactory: func() (*zap.Logger, error) { return zap.NewNop(), nil }}
	logger, err := opts.consoleLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
