package config

import (
	"os"
	"time"
)

// parseEnv overlays configuration values from TELEFEED_* environment
// variables. Unset variables leave the current values untouched. Duration
// variables use Go syntax ("30s", "24h"); an unparsable duration panics,
// same as an unparsable JSON config.
func parseEnv(config *Config) {
	if v := os.Getenv("TELEFEED_ENDPOINT_ADDR"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("TELEFEED_DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("TELEFEED_SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("TELEFEED_ACCESS_TOKEN_VALIDITY"); v != "" {
		config.AccessTokenValidityDuration = mustParseDuration(v)
	}
	if v := os.Getenv("TELEFEED_TELEGRAM_API_BASE_URL"); v != "" {
		config.TelegramAPIBaseURL = v
	}
	if v := os.Getenv("TELEFEED_TELEGRAM_BOT_TOKEN"); v != "" {
		config.TelegramBotToken = v
	}
	if v := os.Getenv("TELEFEED_TELEGRAM_CHANNEL"); v != "" {
		config.TelegramChannel = v
	}
	if v := os.Getenv("TELEFEED_TELEGRAM_REQUEST_TIMEOUT"); v != "" {
		config.TelegramRequestTimeout = mustParseDuration(v)
	}
	if v := os.Getenv("TELEFEED_FETCH_INTERVAL"); v != "" {
		config.FetchInterval = mustParseDuration(v)
	}
	if v := os.Getenv("TELEFEED_CORS_ALLOWED_ORIGINS"); v != "" {
		config.CORSAllowedOrigins = splitOrigins(v)
	}
}

func mustParseDuration(v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	return d
}
