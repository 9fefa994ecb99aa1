package ledger

import "context"

// Service defines the interface for score ledger operations
type Service interface {
	// AddGame appends a scored round to a session. The game number is one
	// greater than the session's current maximum; concurrent writers to the
	// same session can race this read-then-insert and must be serialized
	// upstream if duplicate numbers are unacceptable.
	AddGame(ctx context.Context, input *AddGameInput) (*AddGameOutput, error)

	// UpdateGame overwrites a game's points and auto-calculated flag. The
	// game number and session are immutable.
	UpdateGame(ctx context.Context, input *UpdateGameInput) (*UpdateGameOutput, error)

	// RemoveGame deletes a game, leaving a permanent gap in the numbering
	RemoveGame(ctx context.Context, input *RemoveGameInput) (*RemoveGameOutput, error)

	// ListGames retrieves a session's games in ascending game number order.
	// An unknown session yields an empty list.
	ListGames(ctx context.Context, input *ListGamesInput) (*ListGamesOutput, error)

	// GetTotals computes per-player point totals across all of a session's
	// games. Every current player appears, zero-game players included.
	GetTotals(ctx context.Context, input *GetTotalsInput) (*GetTotalsOutput, error)

	// GetResults retrieves a session together with its games, totals, and
	// standings sorted lowest total first
	GetResults(ctx context.Context, input *GetResultsInput) (*GetResultsOutput, error)
}
