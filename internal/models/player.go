package models

// Player represents a named participant in a session. Player identity is
// scoped to the owning session: the ID is unique within the session, never
// reused, and carries no meaning outside it.
type Player struct {
	// ID is the opaque identifier for the player within the session
	ID string

	// Name is the display name of the player
	Name string
}
