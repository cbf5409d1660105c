// Package config loads application configuration from a YAML file and
// environment variables.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Quotes   QuotesConfig   `mapstructure:"quotes"`
	Imaging  ImagingConfig  `mapstructure:"imaging"`
	Notes    NotesConfig    `mapstructure:"notes"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	// Enabled toggles the quote cache. When false the app runs without Redis.
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type QuotesConfig struct {
	ChartBaseURL  string        `mapstructure:"chart_base_url"`
	SearchBaseURL string        `mapstructure:"search_base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	// RateLimitPerMin caps outgoing provider requests per minute. 0 disables limiting.
	RateLimitPerMin int `mapstructure:"rate_limit_per_min"`
}

type ImagingConfig struct {
	MaxDimension int `mapstructure:"max_dimension"`
	MaxBytes     int `mapstructure:"max_bytes"`
}

type NotesConfig struct {
	AutosaveDelay time.Duration `mapstructure:"autosave_delay"`
}

// LoadConfig reads configuration from path (optional) and the environment.
// Environment variables use the STOCKNOTES_ prefix, e.g. STOCKNOTES_SERVER_ADDR.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "stocknotes.db")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("quotes.timeout", 10*time.Second)
	v.SetDefault("quotes.rate_limit_per_min", 30)
	v.SetDefault("imaging.max_dimension", 1200)
	v.SetDefault("imaging.max_bytes", 500*1024)
	v.SetDefault("notes.autosave_delay", 2*time.Second)

	v.SetEnvPrefix("STOCKNOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
