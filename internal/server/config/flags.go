package config

import (
	"flag"
	"os"
	"time"

	"telefeed/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-b string   Telegram bot token
//	-n string   Telegram channel username
//	-u string   Telegram API base URL
//	-i int      background fetch interval, seconds (0 disables)
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with the -c/-config flag
//     handled by the JSON loader.
//   - Duration flags are accepted as integers and then converted to
//     time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-b", "-n", "-u", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")

	fs.StringVar(&config.TelegramBotToken, "b", config.TelegramBotToken, "telegram bot token")
	fs.StringVar(&config.TelegramChannel, "n", config.TelegramChannel, "telegram channel username")
	fs.StringVar(&config.TelegramAPIBaseURL, "u", config.TelegramAPIBaseURL, "telegram API base URL")

	fetchInterval := fs.Int("i", int(config.FetchInterval.Seconds()), "background fetch interval (in seconds, 0 disables)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.FetchInterval = time.Duration(*fetchInterval) * time.Second
}
