package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds the loaded configuration.
type Config struct {
	Env            string        `env:"APP_ENV" envDefault:"development"`
	APIBaseURL     string        `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	StorageBackend string        `env:"STORAGE_BACKEND" envDefault:"sqlite"`
	StoragePath    string        `env:"STORAGE_PATH" envDefault:"storefront.db"`
	RedisURL       string        `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	StorageTTL     time.Duration `env:"STORAGE_TTL" envDefault:"168h"` // redis backend only
}

// Load reads the .env file if present, then parses configuration from
// environment variables.
func Load() (Config, error) {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.StorageBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return Config{}, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	return cfg, nil
}
