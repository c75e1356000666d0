package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seqhub/preference-service/kafka"
	"github.com/seqhub/preference-service/pkg/logger"
)

// The auditor tails favorite activity topics and keeps an audit log plus
// activity counters. It holds no state of its own; replaying the topics
// rebuilds everything.
func main() {
	_ = godotenv.Load()

	serviceName := getEnv("OTEL_SERVICE_NAME", "preference-auditor")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, getEnv("LOG_LEVEL", "info"), isDevelopment)

	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	groupID := getEnv("KAFKA_GROUP_ID", "preference-auditor")
	topics := []string{kafka.TopicFavoriteMarked, kafka.TopicFavoriteUnmarked}

	consumer, err := kafka.NewConsumer(brokers, groupID, topics)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	activityCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_auditor_events_total",
			Help: "Total number of favorite events observed",
		},
		[]string{"event_type", "datatype"},
	)
	prometheus.MustRegister(activityCounter)

	audit := func(ctx context.Context, event kafka.FavoriteChangedEvent) error {
		activityCounter.WithLabelValues(event.EventType, event.Datatype).Inc()
		logger.Info(ctx).
			Str("event_id", event.EventID).
			Str("event_type", event.EventType).
			Uint("user_id", event.UserID).
			Str("datatype", event.Datatype).
			Time("occurred_at", event.Timestamp).
			Msg("Favorite activity")
		return nil
	}

	consumer.RegisterHandler(kafka.EventTypeFavoriteMarked, audit)
	consumer.RegisterHandler(kafka.EventTypeFavoriteUnmarked, audit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
	}

	// Metrics endpoint
	metricsPort := getEnv("METRICS_PORT", "8090")
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		logger.Logger.Info().Str("port", metricsPort).Msg("Metrics server starting")
		if err := http.ListenAndServe(":"+metricsPort, nil); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down auditor...")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
