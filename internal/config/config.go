// Package config loads server configuration from an optional YAML file with
// environment overrides. The durable store is toggled purely by the presence
// of a database URL: no URL means the registry runs cache-only.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`
	// DBURL is the durable store connection string. Empty disables it.
	DBURL string `yaml:"db_url"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{Addr: ":8080", LogLevel: "info"}
}

// Load reads the YAML file at path when path is non-empty, then applies
// environment overrides (ADDR, DB_URL, LOG_LEVEL) on top.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
		if cfg.Addr == "" {
			cfg.Addr = Default().Addr
		}
		if cfg.LogLevel == "" {
			cfg.LogLevel = Default().LogLevel
		}
	}

	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("DB_URL"); v != "" {
		cfg.DBURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}
