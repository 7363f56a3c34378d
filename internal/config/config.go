package config

import (
	"os"
	"time"
)

// Config holds environment-driven settings for the odds pipeline.
type Config struct {
	Env         string
	ServiceName string

	// Provider
	OddsAPIBaseURL  string
	OddsAPIKey      string
	RequestSpacing  time.Duration // minimum gap between provider requests
	KeyCacheTTL     time.Duration
	RequestTimeout  time.Duration

	// Orchestration
	SportBatchSize int
	RegionDelay    time.Duration
	BatchDelay     time.Duration

	// Caching
	ResultTTL       time.Duration // in-memory result reuse window
	RedisResultTTL  time.Duration // cross-session cached result sets
	RefreshInterval time.Duration // auto-refresh cadence for live odds

	// Collaborators (optional; empty disables)
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string

	// Serving
	HTTPPort    string
	MetricsPort string
}

// Load reads configuration from the environment with sensible defaults.
func Load() Config {
	return Config{
		Env:         getEnv("ENV", "local"),
		ServiceName: getEnv("SERVICE_NAME", "oddsdeck"),

		OddsAPIBaseURL: getEnv("ODDS_API_BASE_URL", "https://api.the-odds-api.com"),
		OddsAPIKey:     os.Getenv("ODDS_API_KEY"),
		RequestSpacing: getDuration("ODDS_API_REQUEST_SPACING", time.Second),
		KeyCacheTTL:    getDuration("ODDS_API_KEY_CACHE_TTL", 5*time.Minute),
		RequestTimeout: getDuration("ODDS_API_REQUEST_TIMEOUT", 10*time.Second),

		SportBatchSize: 3,
		RegionDelay:    getDuration("FETCH_REGION_DELAY", 200*time.Millisecond),
		BatchDelay:     getDuration("FETCH_BATCH_DELAY", 500*time.Millisecond),

		ResultTTL:       getDuration("RESULT_TTL", 30*time.Second),
		RedisResultTTL:  getDuration("REDIS_RESULT_TTL", 5*time.Minute),
		RefreshInterval: getDuration("REFRESH_INTERVAL", time.Minute),

		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9095"),
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
