// Package config provides configuration management for the simulated
// broker, adapted from the teacher's YAML config loader.
package config

import (
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/ahlstrom-labs/simbroker/internal/broker"
)

// Config represents the complete configuration for one simulation run.
type Config struct {
	Environment EnvironmentConfig  `yaml:"environment"`
	Settings    SettingsConfig     `yaml:"settings"`
	Tickstreams []TickstreamConfig `yaml:"tickstreams"`
	Dashboard   DashboardConfig    `yaml:"dashboard"`
	Persistence PersistenceConfig  `yaml:"persistence"`
}

// EnvironmentConfig defines logging and run-mode settings.
type EnvironmentConfig struct {
	LogLevel string `yaml:"log_level"` // debug | info | warn | error
}

// SettingsConfig mirrors broker.Settings in wire (YAML) form.
type SettingsConfig struct {
	StartingBalance  uint64            `yaml:"starting_balance"`
	PingNS           uint64            `yaml:"ping_ns"`
	ExecutionDelayNS uint64            `yaml:"execution_delay_ns"`
	FX               bool              `yaml:"fx"`
	FXBaseCurrency   string            `yaml:"fx_base_currency"`
	FXLotSize        uint64            `yaml:"fx_lot_size"`
	ActionDelaysNS   map[string]uint64 `yaml:"action_delays_ns"`
}

// ToSettings converts the YAML-decoded configuration into a broker.Settings.
func (s SettingsConfig) ToSettings() broker.Settings {
	return broker.Settings{
		StartingBalance:  s.StartingBalance,
		PingNS:           s.PingNS,
		ExecutionDelayNS: s.ExecutionDelayNS,
		FX:               s.FX,
		FXBaseCurrency:   s.FXBaseCurrency,
		FXLotSize:        s.FXLotSize,
		ActionDelaysNS:   s.ActionDelaysNS,
	}
}

// TickstreamConfig describes one tickstream to register at startup.
type TickstreamConfig struct {
	Name             string `yaml:"name"`
	Path             string `yaml:"path"` // CSV file of timestamp,bid,ask
	IsFX             bool   `yaml:"is_fx"`
	DecimalPrecision uint8  `yaml:"decimal_precision"`
}

// DashboardConfig defines the read-only introspection dashboard.
type DashboardConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

// PersistenceConfig defines the checkpoint store.
type PersistenceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads and parses the configuration file from the specified path.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "simbroker.yaml"
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- configPath is an operator-supplied config file path
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", configPath, err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", configPath, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Normalize fills in defaults for zero-valued fields.
func (c *Config) Normalize() {
	if c.Environment.LogLevel == "" {
		c.Environment.LogLevel = "info"
	}
	settings := c.Settings.ToSettings()
	settings.Normalize()
	c.Settings = SettingsConfig{
		StartingBalance:  settings.StartingBalance,
		PingNS:           settings.PingNS,
		ExecutionDelayNS: settings.ExecutionDelayNS,
		FX:               settings.FX,
		FXBaseCurrency:   settings.FXBaseCurrency,
		FXLotSize:        settings.FXLotSize,
		ActionDelaysNS:   settings.ActionDelaysNS,
	}
	if c.Settings.StartingBalance == 0 {
		c.Settings.StartingBalance = broker.DefaultSettings.StartingBalance
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8090
	}
	if c.Persistence.Path == "" {
		c.Persistence.Path = "simbroker.db"
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Environment.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("environment.log_level must be one of: debug, info, warn, error")
	}

	if err := c.Settings.ToSettings().Validate(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Tickstreams))
	for _, ts := range c.Tickstreams {
		if ts.Name == "" {
			return fmt.Errorf("tickstreams: name is required")
		}
		if seen[ts.Name] {
			return fmt.Errorf("tickstreams: duplicate name %q", ts.Name)
		}
		seen[ts.Name] = true
		if ts.IsFX && len(ts.Name) != 6 {
			return fmt.Errorf("tickstreams: fx symbol %q must be exactly 6 characters", ts.Name)
		}
		if ts.Path == "" {
			return fmt.Errorf("tickstreams: path is required for %q", ts.Name)
		}
	}

	return nil
}
