package config

import "time"

type Config struct {
	API     APIConfig     `yaml:"api"`
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`
	History HistoryConfig `yaml:"history"`
}

// APIConfig points at the classification service.
type APIConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// ServerConfig configures the browser form server.
type ServerConfig struct {
	Host         string          `yaml:"host"`
	Port         int             `yaml:"port"`
	MaxBodyBytes int64           `yaml:"max_body_bytes"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`

	// TrustProxy takes the client address from X-Forwarded-For or
	// X-Real-IP. Enable only behind a reverse proxy.
	TrustProxy bool `yaml:"trust_proxy"`
}

// RateLimitConfig holds per-client rate limiting for the form server.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type AuthConfig struct {
	Enabled  bool   `yaml:"enabled"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File, when set, sends logs to a rotating file instead of stdout.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// HistoryConfig controls the local log of successful submissions.
type HistoryConfig struct {
	Enabled          bool   `yaml:"enabled"`
	DataDir          string `yaml:"data_dir"`
	FlushIntervalSec int    `yaml:"flush_interval_sec"`
	MaxEntries       int    `yaml:"max_entries"`
}

func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSec) * time.Second
}

func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.History.FlushIntervalSec) * time.Second
}
