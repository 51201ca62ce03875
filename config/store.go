package config

import "fmt"

// StoreConfig selects the scenario store backend.
type StoreConfig struct {
	// Backend is memory or sqlite.
	Backend string `json:"backend"`
	// Path is the sqlite database file.
	Path string `json:"path"`
}

func (c *StoreConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "linebalance.db"
	}
}

func (c StoreConfig) Validate() error {
	switch c.Backend {
	case "memory":
	case "sqlite":
		if c.Path == "" {
			return fmt.Errorf("path is required")
		}
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	return nil
}
