package config

import (
	"os"
	"time"
)

// parseEnv overlays BLOGCTL_SERVER_URL, BLOGCTL_SESSION_FILE and
// BLOGCTL_TIMEOUT. A malformed timeout is ignored.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv("BLOGCTL_SERVER_URL"); ok && v != "" {
		cfg.ServerURL = v
	}
	if v, ok := os.LookupEnv("BLOGCTL_SESSION_FILE"); ok && v != "" {
		cfg.SessionFile = v
	}
	if v, ok := os.LookupEnv("BLOGCTL_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}
}
