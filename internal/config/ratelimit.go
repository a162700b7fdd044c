package config

import "time"

// RateLimitConfig configures one Redis token bucket.  Two buckets are used:
// a strict one in front of the credential endpoints (sign-up, sign-in) and a
// roomier one for the rest of the API.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables for the general API bucket.
func LoadRateLimitConfig() RateLimitConfig {
	return loadRateLimit("RATE_LIMIT_", RateLimitConfig{
		Enabled:        true,
		Capacity:       120,
		RefillTokens:   2,
		RefillInterval: time.Second,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "timesheet:rl:api",
	})
}

// LoadAuthRateLimitConfig reads AUTH_RATE_LIMIT_* variables for the bucket
// guarding sign-up and sign-in, which hash passwords and are brute-force targets.
func LoadAuthRateLimitConfig() RateLimitConfig {
	return loadRateLimit("AUTH_RATE_LIMIT_", RateLimitConfig{
		Enabled:        true,
		Capacity:       10,
		RefillTokens:   1,
		RefillInterval: 6 * time.Second,
		TTL:            30 * time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "timesheet:rl:auth",
	})
}

func loadRateLimit(prefix string, def RateLimitConfig) RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool(prefix+"ENABLED", def.Enabled),
		Capacity:       envInt(prefix+"CAPACITY", def.Capacity),
		RefillTokens:   envInt(prefix+"REFILL_TOKENS", def.RefillTokens),
		RefillInterval: envDur(prefix+"REFILL_INTERVAL", def.RefillInterval),
		TTL:            envDur(prefix+"TTL", def.TTL),
		KeyStrategy:    envStr(prefix+"KEY_STRATEGY", def.KeyStrategy),
		Prefix:         envStr(prefix+"PREFIX", def.Prefix),
		Debug:          envBool(prefix+"DEBUG", false),
	}
	if b := envInt(prefix+"BURST", -1); b > 0 {
		cfg.Capacity = b
	}
	if every := envDur(prefix+"REFILL_EVERY", 0); every > 0 {
		cfg.RefillTokens = 1
		cfg.RefillInterval = every
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}
