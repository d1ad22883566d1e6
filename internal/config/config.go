// Package config loads the YAML configuration used by the CLI and the
// results API server. The engine itself takes no configuration beyond
// what callers pass at registration time.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	History HistoryConfig `yaml:"history"`
}

type StorageConfig struct {
	Type string `yaml:"type,omitempty"` // "sqlite" or "memory"
	Path string `yaml:"path,omitempty"` // SQLite file path
}

type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

type HistoryConfig struct {
	Limit int `yaml:"limit,omitempty"`
}

// Load reads a config file, falling back to DefaultPath and then to
// built-in defaults when the default file is absent.
func Load(path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath
	}

	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Default config file is optional.
	default:
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.History.Limit <= 0 {
		cfg.History.Limit = 50
	}
	if v := strings.TrimSpace(os.Getenv("PROMPTCHECK_DB")); v != "" {
		cfg.Storage.Path = v
	}

	return &cfg, nil
}
