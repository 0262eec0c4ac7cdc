// Package config loads and validates process configuration, following the
// host's own loadConfig shape: creasty/defaults applies field defaults,
// then a YAML file overlays them, then Validate checks the result.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// RedisConfig holds the shared-cache connection.
type RedisConfig struct {
	Addr     string `yaml:"addr" default:"127.0.0.1:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" default:"0"`
}

// LoggingConfig holds the logger verbosity.
type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
}

// Config is the process-wide configuration for the pricing core.
type Config struct {
	// SetupRetryTimeout is the delay between unbounded lifecycle retries
	// (default range 10-60s).
	SetupRetryTimeout time.Duration `yaml:"setup_retry_timeout" default:"30s"`
	// FetchPoolIdentifierTimeout bounds a single adapter's
	// GetPoolIdentifiers call.
	FetchPoolIdentifierTimeout time.Duration `yaml:"fetch_pool_identifier_timeout" default:"2s"`
	// FetchPoolPricesTimeout bounds a single adapter's GetPricesVolume
	// call.
	FetchPoolPricesTimeout time.Duration `yaml:"fetch_pool_prices_timeout" default:"3s"`
	// IsSlave marks this process as a cache-invalidation replica: only
	// the master (IsSlave == false) deletes adapter cache keys on init.
	IsSlave bool `yaml:"is_slave" default:"false"`

	Redis   RedisConfig   `yaml:"redis"`
	Logging LoggingConfig `yaml:"logging"`
}

// Load reads path, applies defaults first, then the YAML overlay, then
// validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	type plain Config

	if err := yaml.Unmarshal(raw, (*plain)(cfg)); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks that every timeout is positive and that redis.addr is
// set. No upper bound is enforced on the timeouts.
func (c *Config) Validate() error {
	if c.SetupRetryTimeout <= 0 {
		return fmt.Errorf("setup_retry_timeout must be positive")
	}

	if c.FetchPoolIdentifierTimeout <= 0 {
		return fmt.Errorf("fetch_pool_identifier_timeout must be positive")
	}

	if c.FetchPoolPricesTimeout <= 0 {
		return fmt.Errorf("fetch_pool_prices_timeout must be positive")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr must be set")
	}

	return nil
}
