package config

// Rate limiting configuration.  The limiter protects the login endpoints
// from credential stuffing; it is disabled unless RATE_LIMIT_ENABLED is set.

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig describes a token bucket applied per client IP.
type RateLimitConfig struct {
	Enabled        bool          // master switch
	Capacity       int           // bucket size (burst)
	RefillTokens   int           // tokens added per interval
	RefillInterval time.Duration // refill cadence
	TTL            time.Duration // idle expiry of the bucket key
	Prefix         string        // redis key prefix
}

// LoadRateLimit builds a RateLimitConfig from environment variables with
// conservative defaults: 10 attempts burst, 1 token per 6 seconds.
func LoadRateLimit() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        boolEnv("RATE_LIMIT_ENABLED"),
		Capacity:       intEnv("RATE_LIMIT_CAPACITY", 10),
		RefillTokens:   intEnv("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: durEnv("RATE_LIMIT_REFILL_INTERVAL", 6*time.Second),
		TTL:            durEnv("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix:         "rl:login",
	}
	if p := os.Getenv("RATE_LIMIT_PREFIX"); p != "" {
		cfg.Prefix = p
	}
	return cfg
}

func boolEnv(key string) bool {
	v := os.Getenv(key)
	return strings.EqualFold(v, "true") || v == "1"
}

func intEnv(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

func durEnv(key string, def time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return def
}
