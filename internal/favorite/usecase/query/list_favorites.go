package query

import (
	"fmt"
	"sort"

	"github.com/seqhub/preference-service/internal/favorite/domain"
)

// ListFavoritesQuery represents the query to list a user's favorite datatypes
type ListFavoritesQuery struct {
	UserID uint
}

// ListFavoritesHandler handles list favorites query
type ListFavoritesHandler struct {
	repo domain.FavoriteRepository
}

// NewListFavoritesHandler creates a new list favorites handler
func NewListFavoritesHandler(repo domain.FavoriteRepository) *ListFavoritesHandler {
	return &ListFavoritesHandler{repo: repo}
}

// Handle executes the list favorites query. A user with no favorites gets an
// empty slice, never nil and never an error. The store gives no ordering
// guarantee, so results are sorted here for a stable presentation.
func (h *ListFavoritesHandler) Handle(q ListFavoritesQuery) ([]string, error) {
	if q.UserID == 0 {
		return nil, fmt.Errorf("user id is required")
	}

	datatypes, err := h.repo.ListByUser(q.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	if datatypes == nil {
		datatypes = []string{}
	}
	sort.Strings(datatypes)

	return datatypes, nil
}
