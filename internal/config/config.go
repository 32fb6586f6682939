package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	BotToken        string        `mapstructure:"bot_token" validate:"required"`
	TelegramBaseURL string        `mapstructure:"tg_base_url" validate:"required,url"`
	GeoURL          string        `mapstructure:"geo_url" validate:"required,url"`
	WeatherURL      string        `mapstructure:"weather_url" validate:"required,url"`
	DatabaseURL     string        `mapstructure:"database_url" validate:"required"`
	Port            string        `mapstructure:"port" validate:"required,numeric"`
	LogLevel        string        `mapstructure:"log_level" validate:"oneof=trace debug info warn warning error"`
	LogFile         string        `mapstructure:"log_file"`
	WebhookURL      string        `mapstructure:"webhook_url" validate:"omitempty,url"`
	RedisURL        string        `mapstructure:"redis_url" validate:"omitempty,url"`
	UpdateTTL       time.Duration `mapstructure:"update_ttl" validate:"gt=0"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout" validate:"gt=0"`
	MigrationsPath  string        `mapstructure:"migrations_path" validate:"required"`
}

var defaults = map[string]any{
	"port":            "8080",
	"log_level":       "info",
	"update_ttl":      "24h",
	"http_timeout":    "10s",
	"migrations_path": "migrations",
}

// Load loads configuration from environment variables, after merging a .env
// file from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds and validates a Config from the process environment only.
func FromEnv() (*Config, error) {
	v := viper.New()
	for _, key := range []string{
		"bot_token", "tg_base_url", "geo_url", "weather_url", "database_url",
		"port", "log_level", "log_file", "webhook_url", "redis_url",
		"update_ttl", "http_timeout", "migrations_path",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
