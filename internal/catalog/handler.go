package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/seqhub/preference-service/pkg/logger"
)

// Handler exposes the datatype registry to clients building a list view
type Handler struct {
	client *Client
}

// NewHandler creates a new catalog handler
func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// ListDatatypes handles GET /datatypes
// @Summary List selectable datatypes
// @Description Get the full set of datatype tags a user can mark as favorite
// @Tags Catalog
// @Produce json
// @Success 200 {array} catalog.Datatype
// @Failure 502 {object} object{error=string}
// @Router /datatypes [get]
func (h *Handler) ListDatatypes(w http.ResponseWriter, r *http.Request) {
	datatypes, err := h.client.List(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to fetch datatype registry")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "Datatype registry unavailable"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(datatypes)
}

// RegisterRoutes registers catalog routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/datatypes", h.ListDatatypes).Methods("GET")
}
