package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

var ErrEmptyToken = errors.New("error getting VT_TELEGRAM_TOKEN: variable not specified or contains an empty string")

type Config struct {
	Env          string // Env is the current environment: local, dev, prod.
	PageURL      string // PageURL is the product listing page to watch.
	LocationID   string // LocationID identifies the watched page; supplied, not scraped.
	LocationName string // LocationName is the display name of the watched page.
	StoragePath  string // StoragePath is the SQLite database file.
	Interval     time.Duration
	Tg           Telegram
}

type Telegram struct {
	Token   string        // Token is an unique telegram bot token.
	Timeout time.Duration // Timeout is a poller timeout duration.
}

// MustLoad loads the configuration from environment variables and returns a Config struct.
func MustLoad() *Config {
	// Automatically binds environment variables to config keys
	viper.SetEnvPrefix("VT")
	viper.AutomaticEnv()

	// optional args
	viper.SetDefault("ENV", "production")
	viper.SetDefault("TELEGRAM_TIMEOUT", "15s")
	viper.SetDefault("CHECK_INTERVAL", "10m")
	viper.SetDefault("STORAGE_PATH", "vendtrack.db")

	if viper.GetString("TELEGRAM_TOKEN") == "" {
		panic(ErrEmptyToken)
	}

	return &Config{
		Env:          viper.GetString("ENV"),
		PageURL:      viper.GetString("PAGE_URL"),
		LocationID:   viper.GetString("LOCATION_ID"),
		LocationName: viper.GetString("LOCATION_NAME"),
		StoragePath:  viper.GetString("STORAGE_PATH"),
		Interval:     viper.GetDuration("CHECK_INTERVAL"),
		Tg: Telegram{
			Token:   viper.GetString("TELEGRAM_TOKEN"),
			Timeout: viper.GetDuration("TELEGRAM_TIMEOUT"),
		},
	}
}
