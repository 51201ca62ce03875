package config

import (
	"fmt"
	"strings"

	"github.com/kilianp07/linebalance/infra/logger"
)

// LoggingConfig defines the level and format of application logs.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level"`
	// Format is json or console. Empty lets APP_ENV=dev select console.
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level and format names.
func (c LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %s", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown format %s", c.Format)
	}
	return nil
}

// Apply configures the global logger.
func (c LoggingConfig) Apply() error {
	return logger.Configure(logger.Options{Level: c.Level, Format: c.Format})
}
