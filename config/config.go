// Package config loads the engine's num_shards and ring_capacity
// settings (plus logger and metrics options) from a TOML file with
// environment-variable override. Per-shard core_id labels are not
// configurable: the harness uses each shard's index. Loading follows the way the pack's viper-backed
// config loaders do (grounded on wyfcoding-financialTrading's
// pkg/config).
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full set of values an operator can tune without
// touching code.
type Config struct {
	// NumShards is the modulus the router uses to pick a shard for each
	// order (spec §4.4). Must be positive.
	NumShards int `mapstructure:"num_shards"`
	// RingCapacity is the per-shard ring buffer slot count (spec §4.1).
	// Must be >= 2; usable capacity is RingCapacity-1.
	RingCapacity int `mapstructure:"ring_capacity"`

	Logger  LoggerConfig  `mapstructure:"logger"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggerConfig controls the zap logger the harness builds.
type LoggerConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Development selects zap's development encoder (console, stack
	// traces on Warn+) over the production JSON encoder.
	Development bool `mapstructure:"development"`
}

// MetricsConfig controls the Prometheus HTTP exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Load reads configuration from path (if it exists) layered over
// defaults, then applies SHARDMATCH_-prefixed environment variable
// overrides (e.g. SHARDMATCH_NUM_SHARDS=8). path may be empty, in which
// case only defaults and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("num_shards", 4)
	v.SetDefault("ring_capacity", 4096)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.development", false)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.addr", ":9090")

	v.SetEnvPrefix("SHARDMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.NumShards <= 0 {
		return fmt.Errorf("config: num_shards must be positive, got %d", c.NumShards)
	}
	if c.RingCapacity < 2 {
		return fmt.Errorf("config: ring_capacity must be >= 2, got %d", c.RingCapacity)
	}
	return nil
}
