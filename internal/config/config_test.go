package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	// Keep a stray .env in the working directory out of the tests.
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "empty.env"))
	require.NoError(t, os.WriteFile(os.Getenv("ENV_FILE"), nil, 0o644))
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "@channel")
	for _, key := range []string{"BOT_TOKEN", "CHAT_ID", "FORWARD_ID"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.TelegramBotToken)
	assert.Equal(t, "@channel", cfg.TelegramChatID)
	assert.Equal(t, defaultTelegramAPIURL, cfg.TelegramAPIURL)
	assert.Empty(t, cfg.ForwardTo)
	assert.False(t, cfg.Dev)
	assert.Equal(t, defaultIndexURL, cfg.IndexURL)
	assert.Equal(t, SourceHTML, cfg.IndexSource)
	assert.Equal(t, BackendFile, cfg.WatermarkBackend)
	assert.Equal(t, defaultTimeout, cfg.RequestTimeout)
	assert.Equal(t, "", cfg.ScheduleCron)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("FORWARD_IDS", "@one::@two:")
	t.Setenv("DEV", "1")
	t.Setenv("INDEX_SOURCE", "RSS")
	t.Setenv("WATERMARK_BACKEND", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("SCHEDULE_CRON", "0 10 * * 3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"@one", "@two"}, cfg.ForwardTo)
	assert.True(t, cfg.Dev)
	assert.Equal(t, SourceRSS, cfg.IndexSource)
	assert.Equal(t, BackendRedis, cfg.WatermarkBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "0 10 * * 3", cfg.ScheduleCron)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing token", env: map[string]string{"TELEGRAM_BOT_TOKEN": ""}},
		{name: "missing chat", env: map[string]string{"TELEGRAM_CHAT_ID": ""}},
		{name: "bad source", env: map[string]string{"INDEX_SOURCE": "atom"}},
		{name: "bad backend", env: map[string]string{"WATERMARK_BACKEND": "s3"}},
		{name: "postgres without url", env: map[string]string{"WATERMARK_BACKEND": "postgres", "DATABASE_URL": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.env")
	require.NoError(t, os.WriteFile(path, []byte("TELEGRAM_BOT_TOKEN=from-file\nTELEGRAM_CHAT_ID=42\n"), 0o644))
	t.Setenv("ENV_FILE", path)
	// Empty values keep the variables registered with t.Setenv so they are restored.
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	require.NoError(t, os.Unsetenv("TELEGRAM_BOT_TOKEN"))
	require.NoError(t, os.Unsetenv("TELEGRAM_CHAT_ID"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.TelegramBotToken)
	assert.Equal(t, "42", cfg.TelegramChatID)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"-100123", "@chan"}, splitList("-100123: @chan"))
}

func TestLoad_LegacyNames(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("BOT_TOKEN", "legacy-token")
	t.Setenv("CHAT_ID", "@legacy")
	t.Setenv("FORWARD_ID", "@a:@b")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy-token", cfg.TelegramBotToken)
	assert.Equal(t, "@legacy", cfg.TelegramChatID)
	assert.Equal(t, []string{"@a", "@b"}, cfg.ForwardTo)
}

func TestLoad_PrefixedNamesWin(t *testing.T) {
	setRequired(t)
	t.Setenv("BOT_TOKEN", "legacy-token")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.TelegramBotToken)
}
