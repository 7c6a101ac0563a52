// Package config provides configuration loading and validation for the CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults for optional settings.
const (
	DefaultProcessLimit = 50
	DefaultPageSize     = 20
	DefaultCacheTTLSecs = 60
)

// Config holds runtime configuration, loaded from the environment. A .env
// file, if present, is loaded by main before Load runs.
type Config struct {
	DatabaseURL string // PostgreSQL connection URL (required)
	RedisURL    string // Redis connection URL; empty disables the listing cache

	ProcessLimit int    // Max jobs per processing batch
	CacheTTLSecs int    // Listing cache TTL in seconds
	CronSpec     string // Cron expression for the schedule command
	LogLevel     string // zap level: debug, info, warn, error
}

// Load reads configuration from environment variables, applying defaults for
// everything optional.
func Load() *Config {
	return &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		ProcessLimit: envInt("PROCESS_LIMIT", DefaultProcessLimit),
		CacheTTLSecs: envInt("CACHE_TTL_SECONDS", DefaultCacheTTLSecs),
		CronSpec:     envString("PROCESS_CRON", "0 */6 * * *"),
		LogLevel:     envString("LOG_LEVEL", "info"),
	}
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.ProcessLimit <= 0 {
		return fmt.Errorf("PROCESS_LIMIT must be positive, got %d", c.ProcessLimit)
	}
	if c.CacheTTLSecs < 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must not be negative, got %d", c.CacheTTLSecs)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
