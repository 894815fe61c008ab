package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allEnv = []string{
	"TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN", "DATABASE_URL", "ADMIN_ID",
	"WEBHOOK_SECRET", "WEBHOOK_URL", "LISTEN_ADDR", "PORT", "START_TRIGGER",
	"LOG_LEVEL", "STORE_PROBE_INTERVAL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnv {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", " 123:abc ")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, "codebot.db", cfg.DatabaseURL)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "/start", cfg.StartTrigger)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Minute, cfg.ProbeInterval)
	assert.Zero(t, cfg.AdminID)
	assert.Empty(t, cfg.WebhookSecret)
}

func TestLoadRequiresToken(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	assert.ErrorContains(t, err, "TELEGRAM_TOKEN")
}

func TestLoadTokenFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "legacy")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.TelegramToken)

	t.Setenv("TELEGRAM_TOKEN", "primary")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.TelegramToken)
}

func TestLoadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "t")
	t.Setenv("DATABASE_URL", "/data/bot.db")
	t.Setenv("ADMIN_ID", "424242")
	t.Setenv("WEBHOOK_SECRET", "S")
	t.Setenv("PORT", "3000")
	t.Setenv("STORE_PROBE_INTERVAL", "30s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/data/bot.db", cfg.DatabaseURL)
	assert.EqualValues(t, 424242, cfg.AdminID)
	assert.Equal(t, "S", cfg.WebhookSecret)
	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.ProbeInterval)

	t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
}

func TestLoadInvalidValues(t *testing.T) {
	t.Run("admin id", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TELEGRAM_TOKEN", "t")
		t.Setenv("ADMIN_ID", "admin")
		_, err := Load("")
		assert.ErrorContains(t, err, "ADMIN_ID")
	})

	t.Run("probe interval", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TELEGRAM_TOKEN", "t")
		t.Setenv("STORE_PROBE_INTERVAL", "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, "store_probe_interval")
	})

	t.Run("probe disabled", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TELEGRAM_TOKEN", "t")
		t.Setenv("STORE_PROBE_INTERVAL", "0")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Zero(t, cfg.ProbeInterval)
	})
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "codebot.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
telegram_token = "file-token"
database_url = "file.db"
admin_id = 7
webhook_secret = "from-file"
start_trigger = "/begin"
store_probe_interval = "2m"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.TelegramToken)
	assert.Equal(t, "file.db", cfg.DatabaseURL)
	assert.EqualValues(t, 7, cfg.AdminID)
	assert.Equal(t, "/begin", cfg.StartTrigger)
	assert.Equal(t, 2*time.Minute, cfg.ProbeInterval)

	t.Setenv("WEBHOOK_SECRET", "from-env")
	t.Setenv("ADMIN_ID", "8")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.WebhookSecret)
	assert.EqualValues(t, 8, cfg.AdminID)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "t")
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
