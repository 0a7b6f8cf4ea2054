package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	data = substituteEnvVars(data)

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when path is empty or
// cannot be loaded. Environment overrides apply either way.
func LoadOrDefault(path string) *Config {
	if path == "" {
		cfg := Default()
		cfg.ApplyEnv()
		return cfg
	}

	cfg, err := Load(path)
	if err != nil {
		cfg = Default()
		cfg.ApplyEnv()
	}

	return cfg
}
