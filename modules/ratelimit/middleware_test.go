package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// unreachableClient returns a client whose commands fail immediately, for
// exercising the fail-open path without a Redis server.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestMiddleware_FailsOpenWithoutRedis(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	m := NewMiddleware(client, "test:", Config{Requests: 1, Window: time.Minute}, Config{Requests: 1, Window: time.Minute})

	app := fiber.New()
	app.Use(m.PerIP())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// Throttling is best effort: a dead Redis must not block traffic.
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %v, want %v", i, resp.StatusCode, http.StatusOK)
		}
		if resp.Header.Get("X-RateLimit-Error") == "" {
			t.Errorf("request %d: expected X-RateLimit-Error header on fail-open", i)
		}
	}
}

func TestMiddleware_PerPrincipalFallsBackToIP(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	m := NewMiddleware(client, "test:", DefaultIPConfig(), DefaultPrincipalConfig())

	// No principal local is set, so the handler must still run (keyed by IP,
	// failing open on the dead client).
	app := fiber.New()
	app.Use(m.PerPrincipal())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusOK)
	}
}

func TestLimiter_Limit(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	config := Config{Requests: 42, Window: 30 * time.Second}
	limiter := NewLimiter(client, "test:", config)

	if got := limiter.Limit(); got != config {
		t.Errorf("Limit() = %+v, want %+v", got, config)
	}
}

func TestDefaultConfigs(t *testing.T) {
	ip := DefaultIPConfig()
	principal := DefaultPrincipalConfig()

	if ip.Requests <= 0 || ip.Window <= 0 {
		t.Errorf("DefaultIPConfig() is not usable: %+v", ip)
	}
	if principal.Requests <= ip.Requests {
		t.Errorf("authenticated budget %d should exceed anonymous budget %d",
			principal.Requests, ip.Requests)
	}
}
