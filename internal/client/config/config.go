// Package config holds the settings of the blogctl command-line client.
package config

import "time"

// Config holds runtime settings for blogctl.
//
// Fields:
//   - ServerURL: base URL of the blog HTTP API.
//   - SessionFile: SQLite file that keeps the token between invocations.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerURL      string
	SessionFile    string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.SessionFile = "blogctl.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig applies defaults, then the JSON file at path (when not empty),
// then the environment. Command-line flags are bound on top by the CLI.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	return cfg, nil
}
