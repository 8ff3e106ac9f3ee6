package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// dotEnvFile is loaded into the process environment when present.
var dotEnvFile = ".env"

// parseEnv overlays BLOG_* environment variables. A .env file in the working
// directory is loaded first; variables already set in the environment win.
// JWT_SECRET is honoured as a fallback for the secret key.
//
// Durations accept Go syntax ("90m"); BLOG_BCRYPT_COST is an integer.
// Malformed numeric values are ignored.
func parseEnv(config *Config) {
	_ = godotenv.Load(dotEnvFile)

	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		config.SecretKey = v
	}

	stringVars := map[string]*string{
		"BLOG_HTTP_ADDR":        &config.EndpointAddrHTTP,
		"BLOG_DATABASE_DSN":     &config.DatabaseDSN,
		"BLOG_SECRET_KEY":       &config.SecretKey,
		"BLOG_S3_ROOT_USER":     &config.S3RootUser,
		"BLOG_S3_ROOT_PASSWORD": &config.S3RootPassword,
		"BLOG_S3_BUCKET":        &config.S3Bucket,
		"BLOG_S3_REGION":        &config.S3Region,
		"BLOG_S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
		"BLOG_LOG_LEVEL":        &config.LogLevel,
	}
	for name, dst := range stringVars {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("BLOG_ACCESS_TOKEN_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("BLOG_BCRYPT_COST"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = n
		}
	}
}
