// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// CatalogSource is a file path or http(s) URL of the content document. Required.
	CatalogSource string

	// StoreDriver selects the persistence backend: memory, badger, postgres or redis.
	StoreDriver string
	BadgerPath  string
	// DatabaseURL is the Postgres connection string. Required when StoreDriver is postgres.
	DatabaseURL string
	// RedisAddr is host:port of the Redis server. Required when StoreDriver is redis.
	RedisAddr string

	// AssetDir is a local directory laid out like the site root
	// (public/Images, Images, ...). It is served and probed on disk.
	AssetDir string
	// AssetBaseURL is a remote asset host probed with HEAD requests.
	// It wins over AssetDir for probing when both are set.
	AssetBaseURL string
	// AssetRules is an optional YAML file replacing the built-in heuristics.
	AssetRules string

	ProbeTimeout time.Duration
	// ProbeRate is the maximum number of probes per second against AssetBaseURL.
	ProbeRate float64

	// RateLimit is the number of API requests per minute allowed per client IP.
	RateLimit int
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first when present; real
// environment variables take precedence over it.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config.Load: .env: %w", err)
	}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		CatalogSource: os.Getenv("CATALOG_SOURCE"),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", "memory")),
		BadgerPath:    getEnv("BADGER_PATH", "./data"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		AssetDir:      os.Getenv("ASSET_DIR"),
		AssetBaseURL:  os.Getenv("ASSET_BASE_URL"),
		AssetRules:    os.Getenv("ASSET_RULES"),
	}

	var missing, invalid []string

	if cfg.CatalogSource == "" {
		missing = append(missing, "CATALOG_SOURCE")
	}
	switch cfg.StoreDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case "redis":
		if cfg.RedisAddr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	case "memory", "badger":
	default:
		invalid = append(invalid, "STORE_DRIVER")
	}

	var err error
	if cfg.ProbeTimeout, err = time.ParseDuration(getEnv("PROBE_TIMEOUT", "2s")); err != nil || cfg.ProbeTimeout <= 0 {
		invalid = append(invalid, "PROBE_TIMEOUT")
	}
	if cfg.ProbeRate, err = strconv.ParseFloat(getEnv("PROBE_RATE", "20"), 64); err != nil || cfg.ProbeRate <= 0 {
		invalid = append(invalid, "PROBE_RATE")
	}
	if cfg.RateLimit, err = strconv.Atoi(getEnv("RATE_LIMIT", "120")); err != nil || cfg.RateLimit <= 0 {
		invalid = append(invalid, "RATE_LIMIT")
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "required environment variables not set: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		problems = append(problems, "invalid environment variables: "+strings.Join(invalid, ", "))
	}
	if len(problems) > 0 {
		return Config{}, errors.New(strings.Join(problems, "; "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
