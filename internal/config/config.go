package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr string
	// DBConnString empty means the session runs memory-only, without
	// Postgres-backed persistence.
	DBConnString        string
	ShutdownTimeout     time.Duration
	SimulateProgression bool
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:            envOrDefault("HTTP_ADDR", ":8080"),
		DBConnString:        envOrDefault("DB_DSN", ""),
		ShutdownTimeout:     envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		SimulateProgression: envBool("SIMULATE_PROGRESSION", true),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err == nil {
			return parsed
		}
	}
	return def
}
