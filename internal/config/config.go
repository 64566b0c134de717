// Package config loads server configuration from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the reconciler server.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Limits LimitsConfig `yaml:"limits"`
}

// ServerConfig holds the HTTP listener configuration.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// StoreConfig holds the session run-store configuration. The default DSN is
// ":memory:"; runs are never persisted beyond the process by default.
type StoreConfig struct {
	DSN string `yaml:"dsn"`
}

// LimitsConfig bounds request sizes.
type LimitsConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"*"},
		},
		Store:  StoreConfig{DSN: ":memory:"},
		Limits: LimitsConfig{MaxUploadBytes: 64 << 20},
	}
}

// Load reads configuration from path (skipped when empty), then applies
// PORT, STORE_DSN and MAX_UPLOAD_BYTES environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = p
	}
	if v := os.Getenv("STORE_DSN"); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q: %w", v, err)
		}
		cfg.Limits.MaxUploadBytes = n
	}

	return cfg, nil
}
