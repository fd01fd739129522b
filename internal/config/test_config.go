package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.Database = DatabaseConfig{
		Path:    ":memory:",
		Timeout: 1 * time.Second,
	}
	cfg.Catalog.HTTPTimeout = 5 * time.Second
	cfg.Catalog.UserAgent = "wallr-test/1.0"
	cfg.Catalog.Retries = 0
	cfg.Local.Directory = ""
	cfg.Log = LogConfig{Level: "off"}
	return cfg
}
