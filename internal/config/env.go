package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// EnvPrefix is prepended to every environment variable name,
// e.g. SESSIONPROBE_BUS_ADDRESS.
const EnvPrefix = "SESSIONPROBE"

// LoadFromEnv loads configuration from environment variables
// Environment variables override the values already in cfg
func LoadFromEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return errors.Wrap(err, "failed to load configuration from environment")
	}
	return nil
}

// New creates a new Config with default values and loads from environment
func New() (*Config, error) {
	cfg := Default()
	if err := LoadFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
