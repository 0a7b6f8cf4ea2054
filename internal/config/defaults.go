package config

// DefaultAPIURL is the classification service used when nothing else is set.
const DefaultAPIURL = "http://localhost:5000"

func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    DefaultAPIURL,
			TimeoutSec: 30,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			MaxBodyBytes: 64 << 10,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerSecond: 5,
				Burst:             20,
			},
		},
		Auth: AuthConfig{
			Enabled:  false,
			User:     "",
			Password: "",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		History: HistoryConfig{
			Enabled:          true,
			DataDir:          defaultDataDir(),
			FlushIntervalSec: 30,
			MaxEntries:       500,
		},
	}
}
