// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all leaderboard service settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// RANKING CONFIGURATION
// =============================================================================

// RankingConfig holds the construction-time settings of the concurrency
// envelope. Only the stripe count is exposed here, so a deployment can tune
// it without touching core code; the maximum skip list level is a constant
// of internal/ranking. Nothing here is read from the environment at
// request time.
type RankingConfig struct {
	StripeCount int // number of per-customer stripe locks, recommended 4096
}

// DefaultRanking returns the default ranking configuration.
func DefaultRanking() RankingConfig {
	return RankingConfig{
		StripeCount: 4096,
	}
}

// RankingFromEnv returns ranking configuration with environment overrides.
func RankingFromEnv() RankingConfig {
	cfg := DefaultRanking()
	if sc := getEnvInt("STRIPE_COUNT", 0); sc > 0 {
		cfg.StripeCount = sc
	}
	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port: 8080,
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()
	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	return cfg
}

// =============================================================================
// RATE LIMIT CONFIGURATION
// =============================================================================

// RateLimitConfig holds the IP-based HTTP rate limit settings loaded into
// AppConfig.RateLimit. cmd/server does not pass them on: the API server's
// limiter is built from api.DefaultRateLimitConfig.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// DefaultRateLimit returns production-safe defaults.
func DefaultRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 50,
		Burst:             100,
	}
}

// RateLimitFromEnv returns rate limit configuration with environment overrides.
func RateLimitFromEnv() RateLimitConfig {
	cfg := DefaultRateLimit()
	if rps := getEnvFloat("RATE_LIMIT_RPS", -1); rps >= 0 {
		cfg.RequestsPerSecond = rps
	}
	if b := getEnvInt("RATE_LIMIT_BURST", 0); b > 0 {
		cfg.Burst = b
	}
	return cfg
}

// =============================================================================
// OBSERVABILITY CONFIGURATION
// =============================================================================

// ObservabilityConfig configures the metrics/health endpoints.
type ObservabilityConfig struct {
	Enabled bool
}

// DefaultObservability returns safe defaults.
func DefaultObservability() ObservabilityConfig {
	return ObservabilityConfig{Enabled: true}
}

// ObservabilityFromEnv returns observability configuration with environment overrides.
func ObservabilityFromEnv() ObservabilityConfig {
	cfg := DefaultObservability()
	if os.Getenv("METRICS_DISABLED") == "true" {
		cfg.Enabled = false
	}
	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Ranking       RankingConfig
	Server        ServerConfig
	RateLimit     RateLimitConfig
	Observability ObservabilityConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Ranking:       RankingFromEnv(),
		Server:        ServerFromEnv(),
		RateLimit:     RateLimitFromEnv(),
		Observability: ObservabilityFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
