package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/seqhub/preference-service/internal/favorite/domain"
)

// GormFavoriteRepository implements FavoriteRepository using GORM.
// The connection must be opened with TranslateError enabled so that
// driver-level constraint violations surface as gorm sentinel errors.
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new GORM favorite repository
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// ListByUser returns all datatype tags favorited by the user. Order is not
// part of the contract; callers wanting a stable presentation must sort.
func (r *GormFavoriteRepository) ListByUser(userID uint) ([]string, error) {
	datatypes := []string{}
	err := r.db.Model(&domain.FavoriteDatatype{}).
		Where("user_id = ?", userID).
		Pluck("datatype", &datatypes).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list favorites: %v", domain.ErrStorageUnavailable, err)
	}
	return datatypes, nil
}

// Insert persists a new (user, datatype) favorite. The composite unique
// index on (user_id, datatype) is the serialization point for concurrent
// inserts of the same pair: exactly one wins, the rest get
// ErrDuplicateFavorite.
func (r *GormFavoriteRepository) Insert(userID uint, datatype string) (*domain.FavoriteDatatype, error) {
	favorite := &domain.FavoriteDatatype{
		UserID:   userID,
		Datatype: datatype,
	}

	if err := r.db.Create(favorite).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, domain.ErrDuplicateFavorite
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return nil, domain.ErrInvalidReference
		default:
			return nil, fmt.Errorf("%w: failed to insert favorite: %v", domain.ErrStorageUnavailable, err)
		}
	}

	return favorite, nil
}

// DeleteByUserAndDatatype removes all rows matching the (user, datatype)
// pair and reports how many were removed. Zero is not an error.
func (r *GormFavoriteRepository) DeleteByUserAndDatatype(userID uint, datatype string) (int64, error) {
	result := r.db.
		Where("user_id = ? AND datatype = ?", userID, datatype).
		Delete(&domain.FavoriteDatatype{})
	if result.Error != nil {
		return 0, fmt.Errorf("%w: failed to delete favorite: %v", domain.ErrStorageUnavailable, result.Error)
	}
	return result.RowsAffected, nil
}

// Count returns the total number of favorite records
func (r *GormFavoriteRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.FavoriteDatatype{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: failed to count favorites: %v", domain.ErrStorageUnavailable, err)
	}
	return count, nil
}

// AutoMigrate runs database migrations
func (r *GormFavoriteRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.FavoriteDatatype{})
}
