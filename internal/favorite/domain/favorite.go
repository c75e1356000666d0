package domain

import (
	"errors"
	"time"
)

// FavoriteDatatype represents a user's favorite datatype tag.
// One row is one (user, datatype) favoriting fact.
type FavoriteDatatype struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_datatype"`
	Datatype  string    `json:"datatype" gorm:"type:varchar(255);not null;uniqueIndex:idx_user_datatype"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (FavoriteDatatype) TableName() string {
	return "user_favorite_datatypes"
}

// MaxDatatypeLen bounds the datatype column (varchar(255)).
const MaxDatatypeLen = 255

// Store-layer error conditions. The service layer decides which of these
// are absorbed (duplicates) and which propagate as server errors.
var (
	// ErrDuplicateFavorite is returned when the (user_id, datatype) pair
	// already exists. Never surfaced to API callers.
	ErrDuplicateFavorite = errors.New("favorite already exists")

	// ErrInvalidReference is returned when user_id does not reference an
	// existing user.
	ErrInvalidReference = errors.New("user does not exist")

	// ErrStorageUnavailable wraps transport/storage failures.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidDatatype is returned for an empty or over-long datatype
	// token, before any store access.
	ErrInvalidDatatype = errors.New("invalid datatype")
)

// FavoriteRepository defines the contract for favorite datatype data access
type FavoriteRepository interface {
	ListByUser(userID uint) ([]string, error)
	Insert(userID uint, datatype string) (*FavoriteDatatype, error)
	DeleteByUserAndDatatype(userID uint, datatype string) (int64, error)
	Count() (int64, error)
}
