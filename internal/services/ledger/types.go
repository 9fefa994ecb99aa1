package ledger

import (
	"github.com/phorm-app/phorm/internal/models"
	"github.com/phorm-app/phorm/internal/standings"
)

// AddGameInput contains parameters for appending a game to a session
type AddGameInput struct {
	// SessionID is the session the game belongs to
	SessionID string

	// Points maps player IDs to their signed point values for the round.
	// Every key must be a current player of the session; at least two
	// players must be present.
	Points map[string]float64

	// AutoCalculated records whether one entry was inferred to zero the round
	AutoCalculated bool
}

// AddGameOutput contains the result of appending a game
type AddGameOutput struct {
	// Game is the newly created game
	Game *models.Game
}

// UpdateGameInput contains parameters for overwriting a game's points
type UpdateGameInput struct {
	// GameID is the ID of the game to update
	GameID string

	// Points replaces the game's points map, same constraints as AddGame
	Points map[string]float64

	// AutoCalculated replaces the game's auto-calculated flag
	AutoCalculated bool
}

// UpdateGameOutput contains the result of updating a game
type UpdateGameOutput struct {
	// Game is the updated game
	Game *models.Game
}

// RemoveGameInput contains parameters for deleting a game
type RemoveGameInput struct {
	// GameID is the ID of the game to delete
	GameID string
}

// RemoveGameOutput contains the result of deleting a game
type RemoveGameOutput struct {
}

// ListGamesInput contains parameters for listing a session's games
type ListGamesInput struct {
	// SessionID is the session to list games for
	SessionID string
}

// ListGamesOutput contains the result of listing a session's games
type ListGamesOutput struct {
	// Games are the session's games in ascending game number order
	Games []*models.Game
}

// GetTotalsInput contains parameters for computing per-player totals
type GetTotalsInput struct {
	// SessionID is the session to total up
	SessionID string
}

// GetTotalsOutput contains the result of computing per-player totals
type GetTotalsOutput struct {
	// Totals maps every current player ID to their cumulative points
	Totals map[string]float64
}

// GetResultsInput contains parameters for retrieving session results
type GetResultsInput struct {
	// SessionID is the session to retrieve results for
	SessionID string
}

// GetResultsOutput contains a session's full results view
type GetResultsOutput struct {
	// Session is the session the results belong to
	Session *models.Session

	// Games are the session's games in ascending game number order
	Games []*models.Game

	// Totals maps every current player ID to their cumulative points
	Totals map[string]float64

	// Standings are the players ranked by total, lowest first
	Standings []standings.Standing

	// TotalGames is the number of games played
	TotalGames int
}
