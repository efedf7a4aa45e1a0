// Package config handles configuration for the CLI client, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the cosignet CLI.
//
// Fields:
//   - AnchorBaseURL: base URL of the timestamp anchor service.
//   - AnchorSecret: shared secret exchanged for an anchor API token.
//   - DatabaseDSN: path of the local SQLite bundle store.
//   - RequestTimeout: per-request timeout for anchor service calls.
type Config struct {
	AnchorBaseURL  string
	AnchorSecret   string
	DatabaseDSN    string
	RequestTimeout time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.AnchorBaseURL = "http://127.0.0.1:8080"
	c.AnchorSecret = "secretKey"
	c.DatabaseDSN = "bundles.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
