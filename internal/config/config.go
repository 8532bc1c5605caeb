package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server configuration, loaded from the environment
type Config struct {
	Host string `env:"HVZ_HOST" envDefault:""`
	Port int    `env:"HVZ_PORT" envDefault:"8080"`

	// JWTSecret signs and verifies bearer tokens. Required.
	JWTSecret string `env:"HVZ_JWT_SECRET,required"`

	// StorageType selects the backend: memory, redis or sqlite
	StorageType string `env:"HVZ_STORAGE_TYPE" envDefault:"memory"`

	RedisURL   string `env:"HVZ_REDIS_URL" envDefault:"redis://localhost:6379"`
	SQLitePath string `env:"HVZ_SQLITE_PATH" envDefault:"hvz.db"`

	ReadTimeout     time.Duration `env:"HVZ_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HVZ_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HVZ_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	LogLevel string `env:"HVZ_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
