package scheduler

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the engine limits.
type Config struct {
	// MaxHouses bounds ProjectData.HousesCount.
	MaxHouses int `json:"max_houses" yaml:"max_houses"`
	// MinEstimatedWeeks is the smallest calendar horizon generated.
	MinEstimatedWeeks int `json:"min_estimated_weeks" yaml:"min_estimated_weeks"`
	// EstimationMultiplier widens the horizon estimate.
	EstimationMultiplier int `json:"estimation_multiplier" yaml:"estimation_multiplier"`
	// MaxHorizonWeeks caps the calendar horizon. Schedules that need more
	// weeks are cut and reported incomplete.
	MaxHorizonWeeks int `json:"max_horizon_weeks" yaml:"max_horizon_weeks"`
	// MaxSafetyWeeks stops the loop once a week without activity is
	// reached past this index.
	MaxSafetyWeeks int `json:"max_safety_weeks" yaml:"max_safety_weeks"`
	// MinRhythmPerWeek is the smallest positive rhythm after the learning curve.
	MinRhythmPerWeek int `json:"min_rhythm_per_week" yaml:"min_rhythm_per_week"`
}

// DefaultConfig returns the standard limits.
func DefaultConfig() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.MaxHouses == 0 {
		c.MaxHouses = 9999
	}
	if c.MinEstimatedWeeks == 0 {
		c.MinEstimatedWeeks = 200
	}
	if c.EstimationMultiplier == 0 {
		c.EstimationMultiplier = 3
	}
	if c.MaxHorizonWeeks == 0 {
		c.MaxHorizonWeeks = 1040
	}
	if c.MaxSafetyWeeks == 0 {
		c.MaxSafetyWeeks = 500
	}
	if c.MinRhythmPerWeek == 0 {
		c.MinRhythmPerWeek = 1
	}
}

// Validate rejects negative limits.
func (c Config) Validate() error {
	switch {
	case c.MaxHouses < 0:
		return fmt.Errorf("max_houses must be positive")
	case c.MinEstimatedWeeks < 0:
		return fmt.Errorf("min_estimated_weeks must be positive")
	case c.EstimationMultiplier < 0:
		return fmt.Errorf("estimation_multiplier must be positive")
	case c.MaxHorizonWeeks < 0:
		return fmt.Errorf("max_horizon_weeks must be positive")
	case c.MaxHorizonWeeks > 0 && c.MaxHorizonWeeks < c.MinEstimatedWeeks:
		return fmt.Errorf("max_horizon_weeks must not be below min_estimated_weeks")
	case c.MaxSafetyWeeks < 0:
		return fmt.Errorf("max_safety_weeks must be positive")
	case c.MinRhythmPerWeek < 0:
		return fmt.Errorf("min_rhythm_per_week must be positive")
	}
	return nil
}

// LoadConfig loads Config from a JSON or YAML file.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var cfg Config
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err != nil {
		return Config{}, err
	}
	cfg.SetDefaults()
	return cfg, cfg.Validate()
}

// DecodeConfig reads from r to decode a Config.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, err
		}
	case "json":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported format: %s", format)
	}
	cfg.SetDefaults()
	return cfg, cfg.Validate()
}
