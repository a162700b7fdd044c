package config

import "time"

// CacheConfig controls the Redis copy of the client list.  Caching is off
// when Enabled is false or no Redis client is configured.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads CACHE_* variables, applying defaults for unset ones.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 60*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "timesheet:cache"),
	}
}
