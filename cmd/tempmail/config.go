package main

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v4"
)

// fileConfig is the optional YAML configuration file. Flags override
// anything set here.
type fileConfig struct {
	BaseURL             string `yaml:"base_url"`
	UserAgent           string `yaml:"user_agent"`
	WaitTimeoutSeconds  int    `yaml:"wait_timeout_seconds"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
}

func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// WaitTimeout returns the configured wait timeout as a time.Duration.
func (c *fileConfig) WaitTimeout() time.Duration {
	if c.WaitTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.WaitTimeoutSeconds) * time.Second
}

// PollInterval returns the configured poll interval as a time.Duration.
func (c *fileConfig) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}
