package models

import (
	"time"
)

// Session represents one continuous multi-round scoring session among a
// fixed-but-extensible set of players.
type Session struct {
	// ID is the unique identifier for this session
	ID string

	// Name is the display name of the session
	Name string

	// Players is the session's player set in join order. Entries are never
	// removed once a game references them; historical games stay resolvable.
	Players []*Player

	// Passcode is the 6-digit numeric code used to join this session.
	// Unique among active sessions only; ended sessions may share a code.
	Passcode string

	// Active indicates whether the session is still accepting games
	Active bool

	// CreatedBy is an optional opaque identity of the session creator.
	// Empty for anonymous use.
	CreatedBy string

	// CreatedAt is when the session was created
	CreatedAt time.Time

	// UpdatedAt is when the session was last modified
	UpdatedAt time.Time

	// EndedAt is when the session was ended, nil while active
	EndedAt *time.Time
}
