// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full service configuration. DatabaseURL and RedisURL are
// optional: without them the service runs on the in-memory store and
// stateless tokens (development mode).
type Config struct {
	Host        string        `env:"HOST" envDefault:"0.0.0.0"`
	Port        int           `env:"PORT" envDefault:"8080"`
	JWTSecret   string        `env:"JWT_SECRET"`
	JWTExpiry   time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`
	DatabaseURL string        `env:"DATABASE_URL"`
	RedisURL    string        `env:"REDIS_URL"`
	MaxPageSize int           `env:"MAX_PAGE_SIZE" envDefault:"100"`
	BatchLimit  int           `env:"BATCH_LIMIT" envDefault:"8"`
	HashWorkers int           `env:"HASH_WORKERS" envDefault:"0"`
}

// Load parses the environment and validates required settings.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET is required and must be at least 32 bytes")
	}
	return &cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }
