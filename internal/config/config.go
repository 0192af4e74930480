package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lovradikk/slipsentry/internal/risk"
)

// Config carries the heuristic policy knobs plus runtime settings.
// Values here are documented policy, not invariants.
type Config struct {
	WEIGHT_HIGH   int `yaml:"WEIGHT_HIGH"`
	WEIGHT_MEDIUM int `yaml:"WEIGHT_MEDIUM"`
	WEIGHT_LOW    int `yaml:"WEIGHT_LOW"`

	MAX_PATH_HOPS          int `yaml:"MAX_PATH_HOPS"`
	DEADLINE_HORIZON_HOURS int `yaml:"DEADLINE_HORIZON_HOURS"`
	SCORE_CEILING          int `yaml:"SCORE_CEILING"`

	WORKERS int  `yaml:"WORKERS"`
	DEBUG   bool `yaml:"DEBUG"`
}

const DefaultPath = "slipsentry.yml"

func Default() *Config {
	p := risk.DefaultPolicy()
	return &Config{
		WEIGHT_HIGH:   p.WeightHigh,
		WEIGHT_MEDIUM: p.WeightMedium,
		WEIGHT_LOW:    p.WeightLow,

		MAX_PATH_HOPS:          p.MaxPathHops,
		DEADLINE_HORIZON_HOURS: int(p.DeadlineHorizon / time.Hour),
		SCORE_CEILING:          p.ScoreCeiling,

		WORKERS: 8,
		DEBUG:   false,
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SLIPSENTRY_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.WORKERS = n
		}
	}
	if v := os.Getenv("SLIPSENTRY_DEBUG"); v != "" {
		c.DEBUG = v == "true" || v == "1"
	}
	if v := os.Getenv("SLIPSENTRY_MAX_PATH_HOPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MAX_PATH_HOPS = n
		}
	}
}

// Load reads the config, creating a default file if missing.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.WEIGHT_HIGH < c.WEIGHT_MEDIUM || c.WEIGHT_MEDIUM < c.WEIGHT_LOW {
		return fmt.Errorf("weights must keep HIGH >= MEDIUM >= LOW (got %d/%d/%d)",
			c.WEIGHT_HIGH, c.WEIGHT_MEDIUM, c.WEIGHT_LOW)
	}
	if c.MAX_PATH_HOPS <= 0 {
		return fmt.Errorf("MAX_PATH_HOPS must be positive")
	}
	return nil
}

func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}

// Policy converts the file view into the engine's policy struct.
func (c *Config) Policy() risk.Policy {
	return risk.Policy{
		WeightHigh:      c.WEIGHT_HIGH,
		WeightMedium:    c.WEIGHT_MEDIUM,
		WeightLow:       c.WEIGHT_LOW,
		MaxPathHops:     c.MAX_PATH_HOPS,
		DeadlineHorizon: time.Duration(c.DEADLINE_HORIZON_HOURS) * time.Hour,
		ScoreCeiling:    c.SCORE_CEILING,
	}
}
