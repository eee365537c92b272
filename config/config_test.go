package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadDefaults(t *testing.T) {
	cfg := Read()

	assert.Equal(t, "service_account.json", cfg.CredentialsFile)
	assert.Equal(t, "@every 24h", cfg.SummaryCron)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "Reports!A1", cfg.Sheet.Range)
	assert.False(t, cfg.Telegram.ProxyEnabled)
}

func TestReadFromEnv(t *testing.T) {
	t.Setenv("GA_PROPERTY_ID", "123456")
	t.Setenv("GA_CREDENTIALS_FILE", "/etc/bot/sa.json")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "-100")
	t.Setenv("PROXY_ENABLED", "true")
	t.Setenv("PROXY_URL", "socks5://127.0.0.1:1080")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Read()

	assert.Equal(t, "123456", cfg.PropertyID)
	assert.Equal(t, "/etc/bot/sa.json", cfg.CredentialsFile)
	assert.Equal(t, "tok", cfg.Telegram.BotToken)
	assert.Equal(t, "-100", cfg.Telegram.ChatID)
	assert.True(t, cfg.Telegram.ProxyEnabled)
	assert.Equal(t, "socks5://127.0.0.1:1080", cfg.Telegram.ProxyURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}
