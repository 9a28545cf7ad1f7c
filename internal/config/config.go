package config

import (
	"fmt"
	"strings"
	"time"

	"sessionprobe/pkg/bus"
	"sessionprobe/pkg/logger"
)

// Config holds all application configuration
type Config struct {
	// Bus connection configuration
	Bus BusConfig

	// Output configuration
	Output OutputConfig

	// Check history configuration
	History HistoryConfig

	// Logging configuration
	Log LogConfig
}

// BusConfig holds message bus configuration
type BusConfig struct {
	Address     string        // Bus address; empty means the system bus
	CallTimeout time.Duration `split_words:"true"` // Per-call timeout; 0 disables it
}

// OutputConfig controls what the command prints and how it exits
type OutputConfig struct {
	JSON       bool // Print the result as a JSON object
	StrictExit bool `split_words:"true"` // found=0, not found=1, error=2
}

// HistoryConfig holds the optional check history store configuration
type HistoryConfig struct {
	DBPath    string        `split_words:"true"` // SQLite file; empty disables history
	Retention time.Duration // How long records are kept
}

// LogConfig holds diagnostic logging configuration
type LogConfig struct {
	Level string // zerolog level name
	File  string // Optional log file in addition to stderr
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Bus: BusConfig{
			Address:     "", // System bus
			CallTimeout: 0,  // Calls block until the bus answers
		},
		Output: OutputConfig{
			JSON:       false,
			StrictExit: false,
		},
		History: HistoryConfig{
			DBPath:    "",                  // Disabled by default
			Retention: 30 * 24 * time.Hour, // 30 days
		},
		Log: LogConfig{
			Level: "warn",
			File:  "",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Bus.Address != "" && !strings.Contains(c.Bus.Address, ":") {
		return fmt.Errorf("bus address %q has no transport prefix", c.Bus.Address)
	}

	if c.Bus.CallTimeout < 0 {
		return fmt.Errorf("call timeout cannot be negative")
	}

	if c.History.Retention < 0 {
		return fmt.Errorf("history retention cannot be negative")
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}

// BusOptions returns the connection options for the bus package
func (c *Config) BusOptions() bus.Options {
	return bus.Options{
		Address:     c.Bus.Address,
		CallTimeout: c.Bus.CallTimeout,
	}
}

// HistoryEnabled reports whether check results are recorded
func (c *Config) HistoryEnabled() bool {
	return c.History.DBPath != ""
}

// String returns a string representation of the config
func (c *Config) String() string {
	address := c.Bus.Address
	if address == "" {
		address = "system"
	}
	historyPath := c.History.DBPath
	if historyPath == "" {
		historyPath = "disabled"
	}

	return fmt.Sprintf(`Configuration:
  Bus:
    Address: %s
    Call Timeout: %v
  Output:
    JSON: %v
    Strict Exit: %v
  History:
    Database: %s
    Retention: %v
  Log:
    Level: %s
    File: %s`,
		address,
		c.Bus.CallTimeout,
		c.Output.JSON,
		c.Output.StrictExit,
		historyPath,
		c.History.Retention,
		c.Log.Level,
		c.Log.File,
	)
}
