package middleware

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mohamedamineameur/comptia/config"
)

type rateBucket struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a fixed-window per-key counter. It is process-local and
// resets on restart; the persisted daily quota is the authoritative limit.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	window  time.Duration
	max     int
}

// NewRateLimiter builds a limiter allowing max requests per window per key
func NewRateLimiter(window time.Duration, max int) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		window:  window,
		max:     max,
	}
}

// Allow records one request for key. When rejected, retryAfter is the number
// of seconds until the window resets, rounded up and at least 1.
func (l *RateLimiter) Allow(key string) (allowed bool, retryAfter int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	bucket, ok := l.buckets[key]
	if !ok || !bucket.resetAt.After(now) {
		l.buckets[key] = &rateBucket{count: 1, resetAt: now.Add(l.window)}
		return true, 0
	}

	if bucket.count >= l.max {
		seconds := int(time.Until(bucket.resetAt).Seconds()) + 1
		return false, seconds
	}

	bucket.count++
	return true, 0
}

// Sweep drops expired buckets so the map stays bounded under many keys
func (l *RateLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, bucket := range l.buckets {
		if !bucket.resetAt.After(now) {
			delete(l.buckets, key)
		}
	}
}

// Size returns the number of live buckets
func (l *RateLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Handler throttles requests keyed by authenticated user, else by client IP
func (l *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := rateLimitKey(c)
		allowed, retryAfter := l.Allow(key)
		if !allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return ErrorResponse(c, NewAppError(CodeTooManyGenerations, fiber.StatusTooManyRequests))
		}
		return c.Next()
	}
}

// rateLimitKey keys by user when authenticated, otherwise by IP
func rateLimitKey(c *fiber.Ctx) string {
	if userID, ok := c.Locals("userId").(uint); ok {
		return fmt.Sprintf("user:%d", userID)
	}
	return "ip:" + c.IP()
}

var generateLimiter *RateLimiter

// GenerateRateLimit returns the shared limiter guarding the generation
// endpoint, built from config on first use
func GenerateRateLimit() fiber.Handler {
	if generateLimiter == nil {
		generateLimiter = NewRateLimiter(
			time.Duration(config.AppConfig.GenerateRateWindowMs)*time.Millisecond,
			config.AppConfig.GenerateRateMax,
		)
	}
	return generateLimiter.Handler()
}

// SweepGenerateLimiter is scheduled from main to keep the bucket map bounded
func SweepGenerateLimiter() {
	if generateLimiter != nil {
		generateLimiter.Sweep()
	}
}
