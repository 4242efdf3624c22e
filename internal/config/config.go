package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds environment-based settings.
type Config struct {
	Environment    string
	ServerAddress  string
	DatabaseURL    string
	MigrationsPath string

	// Upstream media catalog.
	CatalogURL     string
	CatalogAPIKey  string
	CatalogTimeout time.Duration

	// Redis-backed recency store; optional, in-memory fallback when empty.
	RedisAddress  string
	RedisUsername string
	RedisPassword string

	// Base URL advertised in exported playlists, e.g. "http://host:8080".
	StreamBaseURL string

	// Engine knobs.
	TopUpInterval time.Duration // period of the top-up sweep
	LowWaterMark  time.Duration // rebuild when future coverage drops below this
	HighWaterMark time.Duration // build out to now + HighWaterMark
	RecencyWindow time.Duration // played within this window -> not re-drawn
	Retention     time.Duration // prune entries older than this
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	catalogURL := os.Getenv("CATALOG_URL")
	if catalogURL == "" {
		return nil, fmt.Errorf("CATALOG_URL is required")
	}
	apiKey := os.Getenv("CATALOG_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("CATALOG_API_KEY is required")
	}

	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}
	migrations := os.Getenv("MIGRATIONS_PATH")
	if migrations == "" {
		migrations = "./migrations"
	}
	streamBase := os.Getenv("STREAM_BASE_URL")
	if streamBase == "" {
		streamBase = "http://localhost" + addr
	}

	return &Config{
		Environment:    os.Getenv("APP_ENV"),
		ServerAddress:  addr,
		DatabaseURL:    dbURL,
		MigrationsPath: migrations,

		CatalogURL:     catalogURL,
		CatalogAPIKey:  apiKey,
		CatalogTimeout: duration("CATALOG_TIMEOUT", 30*time.Second),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		StreamBaseURL: streamBase,

		TopUpInterval: duration("TOPUP_INTERVAL", 5*time.Minute),
		LowWaterMark:  duration("LOW_WATER_MARK", 24*time.Hour),
		HighWaterMark: duration("HIGH_WATER_MARK", 72*time.Hour),
		RecencyWindow: duration("RECENCY_WINDOW", 6*time.Hour),
		Retention:     duration("RETENTION", 14*24*time.Hour),
	}, nil
}

// duration reads an env var as a time.Duration ("30s", "24h") or as a plain
// number of seconds; falls back to def when unset or unparseable.
func duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}
