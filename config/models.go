package config

type Config struct {
	PropertyID      string
	CredentialsFile string
	Telegram        Telegram
	Sheet           Sheet
	SummaryCron     string
	LogLevel        string
}

type Telegram struct {
	BotToken     string
	ChatID       string
	ProxyEnabled bool
	ProxyURL     string
}

type Sheet struct {
	ID    string
	Range string
}
