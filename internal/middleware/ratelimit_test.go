package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowWithinLimit(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 3; i++ {
		allowed, _, _ := rl.Allow("u:1", 3, time.Minute)
		assert.True(t, allowed)
	}

	allowed, remaining, _ := rl.Allow("u:1", 3, time.Minute)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}

func TestAllowWindowSlides(t *testing.T) {
	rl := NewRateLimiter()
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	allowed, _, _ := rl.Allow("u:1", 1, time.Minute)
	require.True(t, allowed)

	allowed, _, _ = rl.Allow("u:1", 1, time.Minute)
	require.False(t, allowed)

	current = current.Add(61 * time.Second)
	allowed, _, _ = rl.Allow("u:1", 1, time.Minute)
	assert.True(t, allowed)
}

func TestAllowKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter()

	allowed, _, _ := rl.Allow("u:1", 1, time.Minute)
	require.True(t, allowed)

	allowed, _, _ = rl.Allow("u:2", 1, time.Minute)
	assert.True(t, allowed)
}

func TestLimitMiddlewareRejectsWith429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ContextUserID, 1)
		c.Next()
	})
	r.POST("/x", rl.Limit("test", 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/x", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/x", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}
