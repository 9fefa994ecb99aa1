package models

import (
	"time"
)

// Game represents one scored round within a session, assigning a signed
// point delta to each participating player.
type Game struct {
	// ID is the unique identifier for the game
	ID string

	// SessionID is the ID of the session this game belongs to
	SessionID string

	// GameNumber is the 1-based sequence number of the game within its
	// session. Assigned at creation and immutable; removing a game leaves a
	// permanent gap rather than renumbering later games.
	GameNumber int

	// Points maps player IDs to the signed point values scored this round.
	// Only the players who took part in the round appear here; that may be a
	// subset of the session's player set.
	Points map[string]float64

	// AutoCalculated indicates one entry was inferred as the negation of the
	// sum of the others so the round sums to zero.
	AutoCalculated bool

	// CreatedAt is when the game was recorded
	CreatedAt time.Time

	// UpdatedAt is when the game was last modified
	UpdatedAt time.Time
}
