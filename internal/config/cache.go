package config

import "time"

// CacheConfig controls the response cache applied to the read-only directory
// endpoints (/employees, /usernames). The dashboard polls those aggressively
// and their payloads only change on admin edits, so a short TTL is enough.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads cache settings from the environment.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 15*time.Second),
		Prefix:  getenv("CACHE_PREFIX", "cache"),
	}
}
