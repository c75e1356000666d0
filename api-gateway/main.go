package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/seqhub/preference-service/api-gateway/config"
	"github.com/seqhub/preference-service/api-gateway/middleware"
	"github.com/seqhub/preference-service/api-gateway/routes"
	"github.com/seqhub/preference-service/pkg/logger"
	"github.com/seqhub/preference-service/pkg/tracing"
)

func main() {
	_ = godotenv.Load()

	serviceName := getEnv("OTEL_SERVICE_NAME", "api-gateway")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, getEnv("LOG_LEVEL", "info"), isDevelopment)

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shut down tracer")
			}
		}()
	}

	cfg := config.LoadConfig()

	redisClient := newRedisClient()
	if redisClient != nil {
		defer redisClient.Close()
	}

	app := fiber.New(fiber.Config{
		AppName:      "API Gateway",
		ErrorHandler: customErrorHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	setupMiddleware(app, redisClient)
	routes.SetupRoutes(app, cfg)

	go func() {
		logger.Logger.Info().Str("port", cfg.Port).Msg("API Gateway starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start gateway")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down gateway...")
	if err := app.Shutdown(); err != nil {
		logger.Logger.Error().Err(err).Msg("Gateway shutdown error")
	}
}

func setupMiddleware(app *fiber.App, redisClient *redis.Client) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.StructuredLoggingMiddleware())

	if redisClient != nil {
		app.Use(middleware.CacheMiddleware(redisClient, middleware.DefaultCacheConfig()))
		app.Use(middleware.GlobalRateLimiter(redisClient))
	} else {
		logger.Logger.Warn().Msg("Redis unavailable, cache and rate limiting disabled")
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} ${path}\n",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	app.Use(compress.New())
}

func newRedisClient() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: getEnv("REDIS_ADDR", "localhost:6379"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().Err(err).Msg("Redis ping failed")
		client.Close()
		return nil
	}

	return client
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	logger.Error(c.UserContext()).
		Err(err).
		Str("path", c.Path()).
		Int("status", code).
		Msg("Gateway error")

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
