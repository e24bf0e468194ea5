// Package config loads browser core configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all browser core configuration.
type Config struct {
	Fetch   FetchConfig
	Cache   CacheConfig
	Logging LogConfig
}

// FetchConfig holds network fetch configuration.
type FetchConfig struct {
	UserAgent  string        `envconfig:"USER_AGENT" default:"DragonFly/1.0"`
	Timeout    time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
	MaxRetries int           `envconfig:"FETCH_RETRIES" default:"3"`
	RateLimit  float64       `envconfig:"FETCH_RPS" default:"0"` // 0 = unlimited
}

// CacheConfig holds icon cache configuration.
type CacheConfig struct {
	Dir string `envconfig:"CACHE_DIR" default:""`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from DRAGONFLY_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("dragonfly", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from the environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Fetch: FetchConfig{
			UserAgent:  "DragonFly/1.0",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}
