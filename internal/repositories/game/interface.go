package game

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/phorm-app/phorm/internal/repositories/game Repository

import (
	"context"

	"github.com/phorm-app/phorm/internal/models"
)

// Repository defines the interface for game (round) data persistence
type Repository interface {
	// SaveGame persists a game
	SaveGame(ctx context.Context, input *SaveGameInput) error

	// GetGame retrieves a game by ID
	GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error)

	// DeleteGame removes a game
	DeleteGame(ctx context.Context, input *DeleteGameInput) error

	// ListGamesBySession retrieves all games for a session in ascending
	// game number order. An unknown session yields an empty list, not an
	// error.
	ListGamesBySession(ctx context.Context, input *ListGamesBySessionInput) (*ListGamesBySessionOutput, error)
}
