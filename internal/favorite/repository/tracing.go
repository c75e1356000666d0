package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/seqhub/preference-service/internal/favorite/domain"
)

var tracer = otel.Tracer("favorite-repository")

// GormFavoriteRepositoryWithTracing wraps GormFavoriteRepository with tracing
type GormFavoriteRepositoryWithTracing struct {
	*GormFavoriteRepository
}

// NewGormFavoriteRepositoryWithTracing creates a new repository with tracing
func NewGormFavoriteRepositoryWithTracing(db *gorm.DB) *GormFavoriteRepositoryWithTracing {
	return &GormFavoriteRepositoryWithTracing{
		GormFavoriteRepository: NewGormFavoriteRepository(db),
	}
}

// ListByUser with tracing
func (r *GormFavoriteRepositoryWithTracing) ListByUserWithContext(ctx context.Context, userID uint) ([]string, error) {
	_, span := tracer.Start(ctx, "repository.ListByUser",
		trace.WithAttributes(
			attribute.Int("user.id", int(userID)),
		),
	)
	defer span.End()

	datatypes, err := r.GormFavoriteRepository.ListByUser(userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(datatypes)))
	return datatypes, nil
}

// Insert with tracing
func (r *GormFavoriteRepositoryWithTracing) InsertWithContext(ctx context.Context, userID uint, datatype string) (*domain.FavoriteDatatype, error) {
	_, span := tracer.Start(ctx, "repository.Insert",
		trace.WithAttributes(
			attribute.Int("user.id", int(userID)),
			attribute.String("favorite.datatype", datatype),
		),
	)
	defer span.End()

	favorite, err := r.GormFavoriteRepository.Insert(userID, datatype)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("favorite.id", int(favorite.ID)))
	return favorite, nil
}

// DeleteByUserAndDatatype with tracing
func (r *GormFavoriteRepositoryWithTracing) DeleteByUserAndDatatypeWithContext(ctx context.Context, userID uint, datatype string) (int64, error) {
	_, span := tracer.Start(ctx, "repository.DeleteByUserAndDatatype",
		trace.WithAttributes(
			attribute.Int("user.id", int(userID)),
			attribute.String("favorite.datatype", datatype),
		),
	)
	defer span.End()

	removed, err := r.GormFavoriteRepository.DeleteByUserAndDatatype(userID, datatype)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int64("result.removed", removed))
	return removed, nil
}
