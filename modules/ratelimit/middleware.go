package ratelimit

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// PrincipalLocalsKey is the Fiber locals key the auth middleware uses to
// expose the resolved principal id.
const PrincipalLocalsKey = "user_id"

// Middleware provides rate limiting handlers for Fiber routes.
type Middleware struct {
	ipLimiter        *Limiter
	principalLimiter *Limiter
}

// NewMiddleware creates a Middleware with separate budgets for anonymous
// (per-IP) and authenticated (per-principal) traffic.
func NewMiddleware(client *redis.Client, keyPrefix string, ipConfig, principalConfig Config) *Middleware {
	return &Middleware{
		ipLimiter:        NewLimiter(client, keyPrefix+"ip:", ipConfig),
		principalLimiter: NewLimiter(client, keyPrefix+"principal:", principalConfig),
	}
}

// PerIP returns a handler that limits requests by client IP. Used on the
// unauthenticated auth routes.
func (m *Middleware) PerIP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return m.check(c, m.ipLimiter, c.IP())
	}
}

// PerPrincipal returns a handler that limits requests by the authenticated
// principal id, falling back to the client IP when no principal is set.
func (m *Middleware) PerPrincipal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, ok := c.Locals(PrincipalLocalsKey).(string)
		if !ok || key == "" {
			key = c.IP()
		}
		return m.check(c, m.principalLimiter, key)
	}
}

// check runs the limiter and either passes the request through or answers
// with 429. Redis failures fail open: throttling is best effort and must
// never take the API down with it.
func (m *Middleware) check(c *fiber.Ctx, limiter *Limiter, key string) error {
	result, err := limiter.Allow(c.Context(), key)
	if err != nil {
		c.Set("X-RateLimit-Error", err.Error())
		return c.Next()
	}

	limit := limiter.Limit().Requests
	c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

	if !result.Allowed {
		retryAfter := int(result.RetryAfter.Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Set("Retry-After", strconv.Itoa(retryAfter))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":       "too_many_requests",
			"message":     fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retryAfter),
			"retry_after": retryAfter,
		})
	}

	return c.Next()
}
