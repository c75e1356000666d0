package main

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	_ "github.com/seqhub/preference-service/docs"
	"github.com/seqhub/preference-service/internal/catalog"
	httpDelivery "github.com/seqhub/preference-service/internal/favorite/delivery/http"
	"github.com/seqhub/preference-service/internal/favorite/repository"
	"github.com/seqhub/preference-service/kafka"
	"github.com/seqhub/preference-service/pkg/database"
	"github.com/seqhub/preference-service/pkg/logger"
	"github.com/seqhub/preference-service/pkg/tracing"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	serviceName := getEnv("OTEL_SERVICE_NAME", "preference-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, getEnv("LOG_LEVEL", "info"), isDevelopment)

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load configuration from environment variables
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "preferencedb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database with GORM
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Forward migration for the favorites relation
	if err := database.MigrateFavoritesUp(sqlDB); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	repo := repository.NewGormFavoriteRepository(db)

	// Kafka publisher (optional)
	var publisher *kafka.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unavailable - favorite events disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// Redis for catalog response caching (optional)
	redisClient := newRedisClient()

	catalogClient := catalog.NewClient(getEnv("CATALOG_URL", ""), redisClient)

	// Start HTTP server in a goroutine
	httpPort := getEnv("HTTP_PORT", "8080")
	go startHTTPServer(serviceName, repo, publisher, catalogClient, sqlDB, httpPort)

	// Start gRPC health server in a goroutine
	grpcPort := getEnv("GRPC_PORT", "9090")
	go startGRPCServer(grpcPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down servers...")
}

func newRedisClient() *redis.Client {
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", redisAddr).
			Msg("Failed to connect to Redis - catalog caching disabled")
		return nil
	}

	logger.Logger.Info().Str("redis_addr", redisAddr).Msg("Connected to Redis")
	return client
}

func startHTTPServer(serviceName string, repo *repository.GormFavoriteRepository, publisher *kafka.Publisher, catalogClient *catalog.Client, sqlDB *sql.DB, port string) {
	handler := httpDelivery.NewFavoriteHandler(repo, publisher)
	catalogHandler := catalog.NewHandler(catalogClient)

	// Setup router
	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	handler.RegisterHealthCheck(router, sqlDB)
	catalogHandler.RegisterRoutes(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("favorites", "/users/current/favorite_datatypes").
		Str("catalog", "/datatypes").
		Str("metrics", "/metrics").
		Msg("HTTP server starting")

	traced := httpDelivery.TracingMiddleware(serviceName, c.Handler(router))
	if err := http.ListenAndServe(":"+port, traced); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func startGRPCServer(port string) {
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)

	// Health service for orchestrators probing over gRPC
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	// Register reflection service (for grpcurl and grpc tools)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("port", port).Msg("Failed to listen")
	}

	logger.Logger.Info().Str("port", port).Msg("gRPC health server starting")

	if err := grpcServer.Serve(lis); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start gRPC server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
