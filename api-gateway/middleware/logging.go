package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/seqhub/preference-service/pkg/logger"
)

// StructuredLoggingMiddleware logs each request with trace correlation
func StructuredLoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		event := logger.Info(c.UserContext())
		if status >= 500 {
			event = logger.Error(c.UserContext())
		} else if status >= 400 {
			event = logger.Warn(c.UserContext())
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", duration).
			Str("ip", c.IP()).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Msg("Request handled")

		return err
	}
}
