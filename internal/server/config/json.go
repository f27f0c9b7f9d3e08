package config

import (
	"encoding/json"
	"os"
	"strings"

	"telefeed/internal/flagx"
	"telefeed/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "30s" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	TelegramAPIBaseURL          string         `json:"telegram_api_base_url"`
	TelegramBotToken            string         `json:"telegram_bot_token"`
	TelegramChannel             string         `json:"telegram_channel"`
	TelegramRequestTimeout      timex.Duration `json:"telegram_request_timeout"`
	FetchInterval               timex.Duration `json:"fetch_interval"`
	CORSAllowedOrigins          string         `json:"cors_allowed_origins"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path is taken from the -c/-config command-line
// flags; if it is not set, no JSON file is loaded. An unreadable or invalid
// file panics: a config file that was asked for but cannot be used is a
// startup error.
//
// Zero values in the file leave the corresponding Config fields untouched,
// so a partial file only overrides what it names.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.TelegramAPIBaseURL != "" {
		config.TelegramAPIBaseURL = c.TelegramAPIBaseURL
	}
	if c.TelegramBotToken != "" {
		config.TelegramBotToken = c.TelegramBotToken
	}
	if c.TelegramChannel != "" {
		config.TelegramChannel = c.TelegramChannel
	}
	if c.TelegramRequestTimeout.Duration != 0 {
		config.TelegramRequestTimeout = c.TelegramRequestTimeout.Duration
	}
	if c.FetchInterval.Duration != 0 {
		config.FetchInterval = c.FetchInterval.Duration
	}
	if c.CORSAllowedOrigins != "" {
		config.CORSAllowedOrigins = splitOrigins(c.CORSAllowedOrigins)
	}
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
