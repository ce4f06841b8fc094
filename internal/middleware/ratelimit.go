package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/observability"
)

// RateLimiter is an in-process sliding-window limiter keyed by user id.
// It is advisory backpressure: exceeding a window yields a retryable 429,
// never a silent drop. In a multi-instance deployment the counters would
// move to a shared store; that is a scaling boundary, not a design change.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
}

// NewRateLimiter constructs a RateLimiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windows: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow records one hit for key and reports whether it stays within limit
// events per window. It also returns the remaining budget and the moment the
// window frees up.
func (rl *RateLimiter) Allow(key string, limit int, window time.Duration) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-window)

	hits := rl.windows[key]
	kept := hits[:0]
	for _, hit := range hits {
		if hit.After(cutoff) {
			kept = append(kept, hit)
		}
	}

	if len(kept) >= limit {
		rl.windows[key] = kept
		return false, 0, kept[0].Add(window)
	}

	kept = append(kept, now)
	rl.windows[key] = kept

	remaining := limit - len(kept)
	return true, remaining, now.Add(window)
}

// Limit returns a middleware enforcing limit events per window for the
// authenticated user on one endpoint scope.
func (rl *RateLimiter) Limit(scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + strconv.Itoa(c.GetInt(ContextUserID))
		allowed, remaining, resetAt := rl.Allow(key, limit, window)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			observability.IncRateLimited(scope)
			c.Header("Retry-After", strconv.Itoa(int(time.Until(resetAt).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
