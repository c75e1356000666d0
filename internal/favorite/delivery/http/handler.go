package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/seqhub/preference-service/internal/favorite/domain"
	"github.com/seqhub/preference-service/internal/favorite/usecase/command"
	"github.com/seqhub/preference-service/internal/favorite/usecase/query"
	"github.com/seqhub/preference-service/kafka"
	"github.com/seqhub/preference-service/pkg/logger"
)

// FavoriteHandler handles HTTP requests for favorite datatypes
type FavoriteHandler struct {
	// Command handlers
	addHandler    *command.AddFavoriteHandler
	removeHandler *command.RemoveFavoriteHandler

	// Query handlers
	listHandler *query.ListFavoritesHandler

	repo      domain.FavoriteRepository
	publisher *kafka.Publisher

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	favoriteRows   prometheus.Gauge
}

// NewFavoriteHandler creates a new favorite handler. The Kafka publisher is
// optional; with a nil publisher mutations simply skip event emission.
func NewFavoriteHandler(repo domain.FavoriteRepository, publisher *kafka.Publisher) *FavoriteHandler {
	// Initialize command handlers
	addHandler := command.NewAddFavoriteHandler(repo)
	removeHandler := command.NewRemoveFavoriteHandler(repo)

	// Initialize query handlers
	listHandler := query.NewListFavoritesHandler(repo)

	// Initialize Prometheus metrics
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_service_requests_total",
			Help: "Total number of requests to preference service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "preference_service_request_duration_seconds",
			Help:    "Duration of preference service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	favoriteRows := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "preference_service_favorite_records",
			Help: "Number of persisted favorite datatype records",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(favoriteRows)

	return &FavoriteHandler{
		addHandler:     addHandler,
		removeHandler:  removeHandler,
		listHandler:    listHandler,
		repo:           repo,
		publisher:      publisher,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		favoriteRows:   favoriteRows,
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *FavoriteHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// ListFavorites handles GET /users/current/favorite_datatypes
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	q := query.ListFavoritesQuery{UserID: userID}
	datatypes, err := h.listHandler.Handle(q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("user_id", userID).Msg("Failed to list favorites")
		h.respondError(w, http.StatusInternalServerError, "Failed to list favorites")
		return
	}

	h.respondJSON(w, http.StatusOK, datatypes)
}

// MarkFavorite handles POST /users/current/favorite_datatypes/{datatype}
func (h *FavoriteHandler) MarkFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	vars := mux.Vars(r)
	cmd := command.AddFavoriteCommand{
		UserID:   userID,
		Datatype: vars["datatype"],
	}

	created, err := h.addHandler.Handle(cmd)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDatatype) {
			h.respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		logger.Error(r.Context()).Err(err).
			Uint("user_id", userID).
			Str("datatype", cmd.Datatype).
			Msg("Failed to mark favorite")
		h.respondError(w, http.StatusInternalServerError, "Failed to mark favorite")
		return
	}

	if created {
		h.publishEvent(r.Context(), kafka.EventTypeFavoriteMarked, userID, cmd.Datatype)
		h.updateFavoriteRowsMetric()
	}

	h.respondJSON(w, http.StatusOK, cmd.Datatype)
}

// UnmarkFavorite handles DELETE /users/current/favorite_datatypes/{datatype}
func (h *FavoriteHandler) UnmarkFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	vars := mux.Vars(r)
	cmd := command.RemoveFavoriteCommand{
		UserID:   userID,
		Datatype: vars["datatype"],
	}

	removed, err := h.removeHandler.Handle(cmd)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDatatype) {
			h.respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		logger.Error(r.Context()).Err(err).
			Uint("user_id", userID).
			Str("datatype", cmd.Datatype).
			Msg("Failed to unmark favorite")
		h.respondError(w, http.StatusInternalServerError, "Failed to unmark favorite")
		return
	}

	if removed {
		h.publishEvent(r.Context(), kafka.EventTypeFavoriteUnmarked, userID, cmd.Datatype)
		h.updateFavoriteRowsMetric()
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health
func (h *FavoriteHandler) HealthCheck(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		// Check database connectivity
		if err := db.PingContext(ctx); err != nil {
			h.respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}

		h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

// publishEvent emits a favorite changed event. Event delivery is
// best-effort: a broker failure must not fail the mutation that already
// committed.
func (h *FavoriteHandler) publishEvent(ctx context.Context, eventType string, userID uint, datatype string) {
	if h.publisher == nil {
		return
	}

	var err error
	switch eventType {
	case kafka.EventTypeFavoriteMarked:
		err = h.publisher.PublishFavoriteMarked(ctx, userID, datatype)
	case kafka.EventTypeFavoriteUnmarked:
		err = h.publisher.PublishFavoriteUnmarked(ctx, userID, datatype)
	}
	if err != nil {
		logger.Warn(ctx).Err(err).
			Str("event_type", eventType).
			Uint("user_id", userID).
			Str("datatype", datatype).
			Msg("Failed to publish favorite event")
	}
}

// updateFavoriteRowsMetric updates the favorite records gauge
func (h *FavoriteHandler) updateFavoriteRowsMetric() {
	count, err := h.repo.Count()
	if err == nil {
		h.favoriteRows.Set(float64(count))
	}
}

// respondJSON sends a JSON response
func (h *FavoriteHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *FavoriteHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// RegisterRoutes registers all favorite datatype routes
func (h *FavoriteHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users/current/favorite_datatypes",
		h.metricsMiddleware("/users/current/favorite_datatypes", AuthMiddleware(h.ListFavorites))).Methods("GET")
	router.HandleFunc("/users/current/favorite_datatypes/{datatype}",
		h.metricsMiddleware("/users/current/favorite_datatypes/{datatype}", AuthMiddleware(h.MarkFavorite))).Methods("POST")
	router.HandleFunc("/users/current/favorite_datatypes/{datatype}",
		h.metricsMiddleware("/users/current/favorite_datatypes/{datatype}", AuthMiddleware(h.UnmarkFavorite))).Methods("DELETE")
}

// RegisterHealthCheck registers health check endpoint
func (h *FavoriteHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", h.HealthCheck(db)).Methods("GET")
}
