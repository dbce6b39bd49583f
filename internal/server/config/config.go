// Package config loads and validates runtime settings for the authvault
// server. Everything comes from environment variables, and validation is
// eager: the process refuses to start when a required value is absent or
// malformed.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the authvault server.
//
// Fields:
//   - Port: HTTP listen port.
//   - NATSServers: bus server addresses (comma-separated in the env).
//   - DatabaseDSN: PostgreSQL DSN (pgx).
//   - JWTSecret: HMAC secret for signing tokens (HS256).
//   - TokenTTL: validity window of issued tokens.
//   - BcryptCost: work factor for password hashing.
type Config struct {
	Port        int           `envconfig:"PORT" required:"true"`
	NATSServers []string      `envconfig:"NATS_SERVERS" required:"true"`
	DatabaseDSN string        `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL    time.Duration `envconfig:"TOKEN_TTL" default:"2h"`
	BcryptCost  int           `envconfig:"BCRYPT_COST" default:"10"`
}

// Load reads the environment and returns a validated Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if len(c.NATSServers) == 0 {
		return errors.New("at least one NATS server is required")
	}
	if c.DatabaseDSN == "" {
		return errors.New("database DSN must not be empty")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret must not be empty")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost out of range: %d", c.BcryptCost)
	}
	return nil
}

// Addr returns the HTTP bind address derived from Port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
