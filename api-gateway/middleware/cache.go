package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/seqhub/preference-service/pkg/logger"
)

// CacheConfig holds response cache settings
type CacheConfig struct {
	TTL        time.Duration
	KeyPrefix  string
	Methods    []string
	CachePaths []string
}

// DefaultCacheConfig caches the catalog listing, which changes rarely.
// Favorite listings are per-user and mutate often, so they stay uncached.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:       5 * time.Minute,
		KeyPrefix: "gateway:cache:",
		Methods:   []string{"GET"},
		CachePaths: []string{
			"/datatypes",
		},
	}
}

// CacheMiddleware caches GET responses in Redis
func CacheMiddleware(redisClient *redis.Client, cfg CacheConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !shouldCache(c, cfg) {
			return c.Next()
		}

		key := cacheKey(c, cfg.KeyPrefix)
		ctx := c.UserContext()

		cached, err := redisClient.Get(ctx, key).Bytes()
		if err == nil {
			c.Set("X-Cache", "HIT")
			c.Set("Content-Type", "application/json")
			return c.Send(cached)
		}

		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() == fiber.StatusOK {
			body := make([]byte, len(c.Response().Body()))
			copy(body, c.Response().Body())
			if err := redisClient.Set(ctx, key, body, cfg.TTL).Err(); err != nil {
				logger.Warn(ctx).Err(err).Str("key", key).Msg("Failed to cache response")
			}
		}
		c.Set("X-Cache", "MISS")

		return nil
	}
}

// InvalidateCache removes cached entries for a path
func InvalidateCache(redisClient *redis.Client, c *fiber.Ctx, prefix, path string) {
	key := prefix + hashKey(path)
	if err := redisClient.Del(c.UserContext(), key).Err(); err != nil {
		logger.Warn(c.UserContext()).Err(err).Str("key", key).Msg("Failed to invalidate cache")
	}
}

func shouldCache(c *fiber.Ctx, cfg CacheConfig) bool {
	methodOK := false
	for _, m := range cfg.Methods {
		if c.Method() == m {
			methodOK = true
			break
		}
	}
	if !methodOK {
		return false
	}

	for _, p := range cfg.CachePaths {
		if c.Path() == p {
			return true
		}
	}
	return false
}

func cacheKey(c *fiber.Ctx, prefix string) string {
	raw := fmt.Sprintf("%s:%s:%s", c.Method(), c.Path(), c.Request().URI().QueryString())
	return prefix + hashKey(raw)
}

func hashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
