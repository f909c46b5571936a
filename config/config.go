package config

import (
	"fmt"

	"github.com/mherr/prefect/logger"
	"github.com/mherr/prefect/util"
)

// Config is the engine configuration. Embedding applications extend it by
// wrapping it in their own config structs.
type Config struct {
	Service     string        `yaml:"service" mapstructure:"service"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
	Runner      RunnerConfig  `yaml:"runner" mapstructure:"runner"`
	Store       StoreConfig   `yaml:"store" mapstructure:"store"`
	// FlowDirs are the directories searched for flow spec files.
	FlowDirs []string `yaml:"flow_dirs" mapstructure:"flow_dirs"`
}

// RunnerConfig configures flow execution.
type RunnerConfig struct {
	// MaxParallel limits concurrent task runs (0 = unlimited).
	MaxParallel int `yaml:"max_parallel" mapstructure:"max_parallel" validate:"gte=0"`
	// Debug propagates unclassified task-body errors to the caller.
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// StoreConfig configures flow definition persistence.
type StoreConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend" validate:"oneof=memory bolt"`
	// Path is the bbolt database file. Required for the bolt backend.
	Path string `yaml:"path" mapstructure:"path"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	if c.Service == "" {
		c.Service = "prefect"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "memory"
	}
	if len(c.FlowDirs) == 0 {
		c.FlowDirs = []string{"./flows"}
	}
	c.FlowDirs = util.Unique(c.FlowDirs)
	c.Logging.ApplyDefaults()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", validEnvs, c.Environment)
	}
	if c.Runner.MaxParallel < 0 {
		return fmt.Errorf("config.runner.max_parallel must not be negative (got: %d)", c.Runner.MaxParallel)
	}
	switch c.Store.Backend {
	case "memory":
	case "bolt":
		if c.Store.Path == "" {
			return fmt.Errorf("config.store.path is required for the bolt backend")
		}
	default:
		return fmt.Errorf("config.store.backend must be one of [memory, bolt] (got: %s)", c.Store.Backend)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
