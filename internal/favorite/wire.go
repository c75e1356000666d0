//go:build wireinject
// +build wireinject

package favorite

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/seqhub/preference-service/internal/favorite/delivery/http"
	"github.com/seqhub/preference-service/internal/favorite/domain"
	"github.com/seqhub/preference-service/internal/favorite/repository"
	"github.com/seqhub/preference-service/internal/favorite/usecase/command"
	"github.com/seqhub/preference-service/internal/favorite/usecase/query"
	"github.com/seqhub/preference-service/kafka"
)

// ProvideFavoriteRepository provides the favorite repository
func ProvideFavoriteRepository(db *gorm.DB) domain.FavoriteRepository {
	return repository.NewGormFavoriteRepository(db)
}

// Command Handlers Providers
func ProvideAddFavoriteHandler(repo domain.FavoriteRepository) *command.AddFavoriteHandler {
	return command.NewAddFavoriteHandler(repo)
}

func ProvideRemoveFavoriteHandler(repo domain.FavoriteRepository) *command.RemoveFavoriteHandler {
	return command.NewRemoveFavoriteHandler(repo)
}

// Query Handlers Providers
func ProvideListFavoritesHandler(repo domain.FavoriteRepository) *query.ListFavoritesHandler {
	return query.NewListFavoritesHandler(repo)
}

// ProvideFavoriteHandler provides the HTTP handler
func ProvideFavoriteHandler(repo domain.FavoriteRepository, publisher *kafka.Publisher) *http.FavoriteHandler {
	return http.NewFavoriteHandler(repo, publisher)
}

// CommandHandlers is a struct that holds all command handlers
type CommandHandlers struct {
	AddHandler    *command.AddFavoriteHandler
	RemoveHandler *command.RemoveFavoriteHandler
}

// QueryHandlers is a struct that holds all query handlers
type QueryHandlers struct {
	ListHandler *query.ListFavoritesHandler
}

// ProvideCommandHandlers provides all command handlers
func ProvideCommandHandlers(
	addHandler *command.AddFavoriteHandler,
	removeHandler *command.RemoveFavoriteHandler,
) *CommandHandlers {
	return &CommandHandlers{
		AddHandler:    addHandler,
		RemoveHandler: removeHandler,
	}
}

// ProvideQueryHandlers provides all query handlers
func ProvideQueryHandlers(listHandler *query.ListFavoritesHandler) *QueryHandlers {
	return &QueryHandlers{
		ListHandler: listHandler,
	}
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideFavoriteRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideAddFavoriteHandler,
	ProvideRemoveFavoriteHandler,
	ProvideCommandHandlers,
)

var QueryHandlerSet = wire.NewSet(
	ProvideListFavoritesHandler,
	ProvideQueryHandlers,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, publisher *kafka.Publisher) (*http.FavoriteHandler, error) {
	wire.Build(
		RepositorySet,
		ProvideFavoriteHandler,
	)
	return nil, nil
}
