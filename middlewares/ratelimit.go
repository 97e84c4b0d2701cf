package middlewares

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per key in fixed Redis windows.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, limit: limit, window: window}
}

// Allow records one request for key and reports whether it fits the window.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if rl == nil || rl.rdb == nil {
		return false, fmt.Errorf("Redis client not available")
	}

	redisKey := "rate:" + key
	count, err := rl.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}

	// Set expiration if first time
	if count == 1 {
		if err := rl.rdb.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(rl.limit), nil
}

// RateLimitMiddleware limits each user to the limiter's budget for scope. A
// nil limiter lets every request through; Redis errors fail open.
func RateLimitMiddleware(rl *RateLimiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil {
			c.Next()
			return
		}

		user := c.GetString(ContextUserID)
		if user == "" {
			user = c.ClientIP()
		}

		allowed, err := rl.Allow(c.Request.Context(), scope+":"+user)
		if err != nil {
			slog.Warn("rate limit check failed", "scope", scope, "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, try again later"})
			return
		}
		c.Next()
	}
}
