package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowsUpToMax(t *testing.T) {
	limiter := NewRateLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("user:1")
		assert.True(t, allowed, "request %d should pass", i+1)
	}

	allowed, retryAfter := limiter.Allow("user:1")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, 61, "retry hint never exceeds the window")
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewRateLimiter(time.Minute, 1)

	allowed, _ := limiter.Allow("user:1")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("user:1")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow("user:2")
	assert.True(t, allowed, "another key has its own bucket")
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	limiter := NewRateLimiter(30*time.Millisecond, 1)

	allowed, _ := limiter.Allow("ip:10.0.0.1")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("ip:10.0.0.1")
	assert.False(t, allowed)

	time.Sleep(40 * time.Millisecond)

	allowed, _ = limiter.Allow("ip:10.0.0.1")
	assert.True(t, allowed, "an expired window re-admits the key")
}

func TestRateLimiterSweep(t *testing.T) {
	limiter := NewRateLimiter(10*time.Millisecond, 5)

	limiter.Allow("a")
	limiter.Allow("b")
	limiter.Allow("c")
	assert.Equal(t, 3, limiter.Size())

	time.Sleep(20 * time.Millisecond)
	limiter.Sweep()

	assert.Equal(t, 0, limiter.Size(), "expired buckets are dropped")
}

func TestRateLimiterHandler(t *testing.T) {
	limiter := NewRateLimiter(time.Minute, 1)

	app := fiber.New()
	app.Post("/generate", limiter.Handler(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	first, err := app.Test(httptest.NewRequest("POST", "/generate", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, first.StatusCode)

	second, err := app.Test(httptest.NewRequest("POST", "/generate", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, second.StatusCode)
	assert.NotEmpty(t, second.Header.Get(fiber.HeaderRetryAfter))

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(second.Body).Decode(&body))
	assert.Equal(t, CodeTooManyGenerations, body.Code)
	assert.NotEmpty(t, body.Message)
}
