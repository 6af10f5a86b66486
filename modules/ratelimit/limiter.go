// Package ratelimit provides a Redis-backed fixed-window rate limiter and
// the Fiber middleware that applies it to the HTTP surface.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the limits for a single window.
type Config struct {
	// Requests is the maximum number of requests allowed per window.
	Requests int
	// Window is the duration of the counting window.
	Window time.Duration
}

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter counts requests per key in fixed windows using Redis. The first
// request in a window creates the counter with an expiry equal to the
// window size; the window resets when the key expires.
type Limiter struct {
	client *redis.Client
	prefix string
	config Config
}

// NewLimiter creates a new Limiter.
func NewLimiter(client *redis.Client, prefix string, config Config) *Limiter {
	return &Limiter{
		client: client,
		prefix: prefix,
		config: config,
	}
}

// windowScript atomically increments the counter and starts the window
// expiry on first use, returning the count and the remaining window TTL.
var windowScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	return {count, ttl}
`)

// Allow checks whether one more request under key fits in the current window.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	vals, err := windowScript.Run(
		ctx,
		l.client,
		[]string{l.prefix + key},
		l.config.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script failed: %w", err)
	}
	if len(vals) != 2 {
		return nil, fmt.Errorf("unexpected rate limit script result length: %d", len(vals))
	}

	count, ttlMs := vals[0], vals[1]
	if ttlMs < 0 {
		ttlMs = l.config.Window.Milliseconds()
	}

	remaining := l.config.Requests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   count <= int64(l.config.Requests),
		Remaining: remaining,
		ResetAt:   time.Now().Add(time.Duration(ttlMs) * time.Millisecond),
	}
	if !result.Allowed {
		result.RetryAfter = time.Duration(ttlMs) * time.Millisecond
	}
	return result, nil
}

// Reset clears the window for a specific key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.prefix+key).Err()
}

// Limit returns the limiter's configuration.
func (l *Limiter) Limit() Config {
	return l.config
}
