package config

import (
	"github.com/spf13/viper"
)

func Read() Config {
	v := viper.New()

	v.SetDefault("GA_CREDENTIALS_FILE", "service_account.json")
	v.SetDefault("SUMMARY_CRON", "@every 24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHEET_RANGE", "Reports!A1")

	// Опциональный config.yaml рядом с бинарником, env всегда главнее
	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.AutomaticEnv()

	return Config{
		PropertyID:      v.GetString("GA_PROPERTY_ID"),
		CredentialsFile: v.GetString("GA_CREDENTIALS_FILE"),
		Telegram: Telegram{
			BotToken:     v.GetString("TELEGRAM_BOT_TOKEN"),
			ChatID:       v.GetString("TELEGRAM_CHAT_ID"),
			ProxyEnabled: v.GetBool("PROXY_ENABLED"),
			ProxyURL:     v.GetString("PROXY_URL"),
		},
		Sheet: Sheet{
			ID:    v.GetString("SHEET_ID"),
			Range: v.GetString("SHEET_RANGE"),
		},
		SummaryCron: v.GetString("SUMMARY_CRON"),
		LogLevel:    v.GetString("LOG_LEVEL"),
	}
}
