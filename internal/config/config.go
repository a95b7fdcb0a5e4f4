// Package config loads the optional rc file controlling the interactive
// shell: prompt text, history file location, and job table capacity.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultFileName    = ".goshrc.yaml"
	defaultHistoryName = ".gosh_history"
	defaultPrompt      = "gosh> "
	defaultMaxJobs     = 16
)

type Config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	MaxJobs     int    `yaml:"max_jobs"`
}

// Load reads the rc file at path, or from the home directory when path is
// empty. A missing default rc file is not an error; an explicitly given path
// must exist. Unset fields fall back to defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, defaultFileName)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return withDefaults(cfg)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return withDefaults(cfg)
}

func withDefaults(cfg *Config) (*Config, error) {
	if cfg.Prompt == "" {
		cfg.Prompt = defaultPrompt
	}

	if cfg.HistoryFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.HistoryFile = filepath.Join(home, defaultHistoryName)
	}

	if cfg.MaxJobs <= 0 {
		cfg.MaxJobs = defaultMaxJobs
	}

	return cfg, nil
}
