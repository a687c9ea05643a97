package main

// Env is a structure that holds all the environment variables that are used in the app.
type Env struct {
	ServerAddr        string `mapstructure:"SERVER_ADDR"`
	SecretsFile       string `mapstructure:"SECRETS_FILE"`
	ScorerProvider    string `mapstructure:"SCORER_PROVIDER" validate:"omitempty,oneof=lexicon openai gemini"`
	OpenAiToken       string `mapstructure:"OPENAI_TOKEN"`
	GoogleGeminiToken string `mapstructure:"GOOGLE_GEMINI_TOKEN"`
	TypefullyAPIKey   string `mapstructure:"TYPEFULLY_API_KEY"`
	TelegramChannelID string `mapstructure:"TELEGRAM_CHANNEL_ID"`
	TelegramBotToken  string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	PostgresDSN       string `mapstructure:"POSTGRES_DSN"`
	SentryDSN         string `mapstructure:"SENTRY_DSN"`
	DigestAt          string `mapstructure:"DIGEST_AT" validate:"omitempty,datetime=15:04"`
	PublishDigest     bool   `mapstructure:"PUBLISH_DIGEST"`
	UseProxies        bool   `mapstructure:"USE_PROXIES"`
}

type Config struct {
	env *Env // Holds all the environment variables that are used in the app
}

// NewConfig creates a new Config object with the given Env and default values from DefaultConfig.
func NewConfig(env *Env) *Config {
	c := DefaultConfig()
	c.env = env

	if c.env.ServerAddr == "" {
		c.env.ServerAddr = ":8080"
	}
	if c.env.ScorerProvider == "" {
		c.env.ScorerProvider = "lexicon"
	}
	if c.env.DigestAt == "" {
		c.env.DigestAt = "14:00"
	}

	return c
}

// DefaultConfig creates a new Config object with default values.
func DefaultConfig() *Config {
	return &Config{
		env: &Env{},
	}
}
