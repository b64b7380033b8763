// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Cache backend identifiers.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// OracleBaseURL is the scoring service root, e.g. "https://db.example.com".
	OracleBaseURL string `koanf:"oracle_base_url"`

	// OracleAPIKey is sent as the apikey header on every oracle call.
	OracleAPIKey string `koanf:"oracle_api_key"`

	// OracleServiceToken is the bearer token for oracle calls, and the
	// token mutating API endpoints require.
	OracleServiceToken string `koanf:"oracle_service_token"`

	// OracleTimeoutMS bounds a single oracle request.
	OracleTimeoutMS int `koanf:"oracle_timeout_ms"`

	// OracleRetries enables retrying transient oracle failures.
	OracleRetries int `koanf:"oracle_retries"`

	// CacheBackend selects the score cache: memory or redis.
	CacheBackend string `koanf:"cache_backend"`

	// RedisAddr, RedisPassword, and RedisDB configure the redis backend.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// CacheTTLSeconds gives redis entries an expiry. Zero keeps them
	// until explicitly invalidated.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// QueueSize bounds the in-memory prefetch queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of cache-warming workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the prefetch deduplication window.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxRecommendationLimit caps GET /recommendations?limit.
	MaxRecommendationLimit int `koanf:"max_recommendation_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":8080",
		OracleTimeoutMS:        10_000,
		OracleRetries:          0,
		CacheBackend:           CacheBackendMemory,
		RedisAddr:              "localhost:6379",
		QueueSize:              10_000,
		WorkerCount:            runtime.NumCPU() * 2,
		DedupeSize:             50_000,
		MaxRecommendationLimit: 100,
	}
}
