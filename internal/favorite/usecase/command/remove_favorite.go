package command

import (
	"fmt"
	"strings"

	"github.com/seqhub/preference-service/internal/favorite/domain"
)

// RemoveFavoriteCommand represents the command to unmark a favorite datatype
type RemoveFavoriteCommand struct {
	UserID   uint
	Datatype string
}

// RemoveFavoriteHandler handles remove favorite command
type RemoveFavoriteHandler struct {
	repo domain.FavoriteRepository
}

// NewRemoveFavoriteHandler creates a new remove favorite handler
func NewRemoveFavoriteHandler(repo domain.FavoriteRepository) *RemoveFavoriteHandler {
	return &RemoveFavoriteHandler{repo: repo}
}

// Handle executes the remove favorite command. Unmarking a datatype that is
// not currently favorited is a successful no-op. The returned bool reports
// whether any record was actually removed.
func (h *RemoveFavoriteHandler) Handle(cmd RemoveFavoriteCommand) (bool, error) {
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

	removed, err := h.repo.DeleteByUserAndDatatype(cmd.UserID, datatype)
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}

	return removed > 0, nil
}
