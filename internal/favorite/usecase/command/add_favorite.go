package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/seqhub/preference-service/internal/favorite/domain"
)

// AddFavoriteCommand represents the command to mark a datatype as favorite
type AddFavoriteCommand struct {
	UserID   uint
	Datatype string
}

// AddFavoriteHandler handles add favorite command
type AddFavoriteHandler struct {
	repo domain.FavoriteRepository
}

// NewAddFavoriteHandler creates a new add favorite handler
func NewAddFavoriteHandler(repo domain.FavoriteRepository) *AddFavoriteHandler {
	return &AddFavoriteHandler{repo: repo}
}

// Handle executes the add favorite command. Marking an already-favorited
// datatype is a successful no-op: the store's unique index rejects the
// second row and the conflict is absorbed here, so concurrent adds of the
// same pair all succeed while exactly one record is created. The returned
// bool reports whether a new record was actually persisted.
func (h *AddFavoriteHandler) Handle(cmd AddFavoriteCommand) (bool, error) {
	if cmd.UserID == 0 {
		return false, fmt.Errorf("user id is required")
	}

	datatype := strings.TrimSpace(cmd.Datatype)
	if datatype == "" {
		return false, fmt.Errorf("%w: datatype is required", domain.ErrInvalidDatatype)
	}
	if len(datatype) > domain.MaxDatatypeLen {
		return false, fmt.Errorf("%w: datatype exceeds %d characters", domain.ErrInvalidDatatype, domain.MaxDatatypeLen)
	}

	if _, err := h.repo.Insert(cmd.UserID, datatype); err != nil {
		if errors.Is(err, domain.ErrDuplicateFavorite) {
			return false, nil
		}
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}

	return true, nil
}
