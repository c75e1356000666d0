package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/seqhub/preference-service/pkg/logger"
)

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	KeyPrefix   string
}

// GlobalRateLimiter limits each client IP using a Redis sliding window
func GlobalRateLimiter(redisClient *redis.Client) fiber.Handler {
	return RateLimiter(redisClient, RateLimitConfig{
		MaxRequests: 100,
		Window:      time.Minute,
		KeyPrefix:   "gateway:ratelimit:",
	})
}

// RateLimiter enforces a sliding-window rate limit keyed by client IP
func RateLimiter(redisClient *redis.Client, cfg RateLimitConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		key := cfg.KeyPrefix + c.IP()
		now := time.Now()
		windowStart := now.Add(-cfg.Window)

		pipe := redisClient.Pipeline()
		pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
		countCmd := pipe.ZCard(ctx, key)
		pipe.ZAdd(ctx, key, redis.Z{
			Score:  float64(now.UnixNano()),
			Member: fmt.Sprintf("%d", now.UnixNano()),
		})
		pipe.Expire(ctx, key, cfg.Window)

		if _, err := pipe.Exec(ctx); err != nil {
			// Redis trouble should not take the gateway down
			logger.Warn(ctx).Err(err).Msg("Rate limiter unavailable, allowing request")
			return c.Next()
		}

		count := countCmd.Val()
		remaining := int64(cfg.MaxRequests) - count - 1
		if remaining < 0 {
			remaining = 0
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count >= int64(cfg.MaxRequests) {
			logger.Warn(ctx).
				Str("ip", c.IP()).
				Int64("count", count).
				Msg("Rate limit exceeded")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Rate limit exceeded",
				"retry_after": cfg.Window.Seconds(),
			})
		}

		return c.Next()
	}
}
