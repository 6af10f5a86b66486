package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

// RateLimitModule owns the Redis connection and hands out Fiber middleware
// to the API module.
type RateLimitModule struct {
	client     *redis.Client
	middleware *Middleware
	redisAddr  string

	ipConfig        Config
	principalConfig Config
}

// Compile-time interface check.
var _ mono.Module = (*RateLimitModule)(nil)

// DefaultIPConfig is the budget for unauthenticated traffic.
func DefaultIPConfig() Config {
	return Config{Requests: 30, Window: time.Minute}
}

// DefaultPrincipalConfig is the budget for authenticated traffic.
func DefaultPrincipalConfig() Config {
	return Config{Requests: 300, Window: time.Minute}
}

// NewModule creates a new RateLimitModule with default budgets.
func NewModule(redisAddr string) *RateLimitModule {
	return &RateLimitModule{
		redisAddr:       redisAddr,
		ipConfig:        DefaultIPConfig(),
		principalConfig: DefaultPrincipalConfig(),
	}
}

// Name returns the module name.
func (m *RateLimitModule) Name() string {
	return "ratelimit"
}

// Start connects to Redis and builds the middleware.
func (m *RateLimitModule) Start(ctx context.Context) error {
	m.client = redis.NewClient(&redis.Options{
		Addr:         m.redisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", m.redisAddr, err)
	}

	m.middleware = NewMiddleware(m.client, "ratelimit:", m.ipConfig, m.principalConfig)

	log.Printf("[ratelimit] Module started (redis: %s, ip: %d/%s, principal: %d/%s)",
		m.redisAddr,
		m.ipConfig.Requests, m.ipConfig.Window,
		m.principalConfig.Requests, m.principalConfig.Window)
	return nil
}

// Stop closes the Redis connection.
func (m *RateLimitModule) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			log.Printf("[ratelimit] Error closing Redis connection: %v", err)
		}
	}
	log.Println("[ratelimit] Module stopped")
	return nil
}

// Middleware returns the Fiber middleware. Nil until Start has run.
func (m *RateLimitModule) Middleware() *Middleware {
	return m.middleware
}
