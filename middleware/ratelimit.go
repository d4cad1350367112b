package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:auth:"

// slidingWindow counts requests in a rolling window with a Redis sorted set.
// The whole check-and-record step runs as one script so concurrent requests
// cannot slip past the limit between the count and the insert.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local current = redis.call('ZCARD', key)

	if current < limit then
		local counter = redis.call('INCR', key .. ':counter')
		redis.call('ZADD', key, now, now .. ':' .. counter)
		local expire_seconds = math.ceil(window_ms / 1000)
		redis.call('EXPIRE', key, expire_seconds)
		redis.call('EXPIRE', key .. ':counter', expire_seconds)
		return 1
	end
	return 0
`)

// RateLimiter throttles the credential endpoints per client IP.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter returns nil when no Redis address is configured; a nil
// limiter produces a pass-through middleware.
func NewRateLimiter(addr, password string, limit int, window time.Duration) *RateLimiter {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Limit is the gin middleware. Redis errors fail open: an unreachable limiter
// must not take down login.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		now := time.Now()
		key := rateLimitKeyPrefix + c.ClientIP()

		allowed, err := slidingWindow.Run(
			context.Background(), rl.client,
			[]string{key},
			now.UnixMilli(), now.Add(-rl.window).UnixMilli(), rl.limit, rl.window.Milliseconds(),
		).Int64()
		if err != nil {
			log.Printf("rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		if allowed != 1 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many attempts, please try again later",
			})
			return
		}
		c.Next()
	}
}
