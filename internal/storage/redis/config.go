package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// Game lock settings. LockTTL bounds how long a crashed holder can block
	// a game; LockRetryDelay is the poll interval while waiting.
	LockTTL        time.Duration
	LockRetryDelay time.Duration
	LockTimeout    time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		PoolSize:       10,
		MinIdleConns:   2,
		LockTTL:        10 * time.Second,
		LockRetryDelay: 25 * time.Millisecond,
		LockTimeout:    5 * time.Second,
	}
}
