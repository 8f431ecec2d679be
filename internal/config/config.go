// Package config loads the service configuration from the environment.
package config

import (
	"os"
	"strings"
	"time"

	"leagueboard/internal/espn"
)

type Config struct {
	Port        string
	AppEnv      string // "development" or "production"
	DatabaseURL string // empty runs the in-memory store

	ESPNBaseURL    string
	ESPNTimeout    time.Duration
	TrackedTeams   []string // abbreviations; empty tracks every game
	ScoresCacheTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		AppEnv:         getEnv("APP_ENV", "development"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ESPNBaseURL:    getEnv("ESPN_BASE_URL", espn.DefaultBaseURL),
		ESPNTimeout:    getEnvDuration("ESPN_TIMEOUT", 10*time.Second),
		TrackedTeams:   getEnvList("TRACKED_TEAMS"),
		ScoresCacheTTL: getEnvDuration("SCORES_CACHE_TTL", 30*time.Second),
	}
	return cfg
}

// Production reports whether the service runs with production settings.
func (c Config) Production() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value, dropping empty entries.
func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
