package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	// Swagger UI
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListFavorites godoc
// @Summary List favorite datatypes
// @Description Get the authenticated user's favorite datatype tags
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Success 200 {array} string
// @Failure 401 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /users/current/favorite_datatypes [get]
func (h *FavoriteHandler) ListFavoritesDoc() {}

// MarkFavorite godoc
// @Summary Mark a datatype as favorite
// @Description Add a datatype tag to the authenticated user's favorites. Idempotent: marking an already-favorited tag succeeds without creating a second record.
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Param datatype path string true "Datatype tag (e.g. fasta)"
// @Success 200 {string} string "The marked datatype"
// @Failure 401 {object} object{error=string}
// @Failure 422 {object} object{error=string}
// @Router /users/current/favorite_datatypes/{datatype} [post]
func (h *FavoriteHandler) MarkFavoriteDoc() {}

// UnmarkFavorite godoc
// @Summary Unmark a favorite datatype
// @Description Remove a datatype tag from the authenticated user's favorites. Idempotent: unmarking a tag that is not favorited succeeds.
// @Tags Favorites
// @Security BearerAuth
// @Param datatype path string true "Datatype tag (e.g. fasta)"
// @Success 204
// @Failure 401 {object} object{error=string}
// @Failure 422 {object} object{error=string}
// @Router /users/current/favorite_datatypes/{datatype} [delete]
func (h *FavoriteHandler) UnmarkFavoriteDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string}
// @Failure 503 {object} object{status=string,error=string}
// @Router /health [get]
func (h *FavoriteHandler) HealthCheckDoc() {}
