package session

import (
	"github.com/phorm-app/phorm/internal/models"
)

// CreateSessionInput contains parameters for creating a new session
type CreateSessionInput struct {
	// Name is the display name of the session
	Name string

	// PlayerNames are the initial players' display names. Blank entries are
	// dropped; at least two non-blank names are required.
	PlayerNames []string

	// Passcode optionally supplies the join code. Empty means generate one.
	Passcode string

	// CreatedBy is an optional opaque creator identity
	CreatedBy string
}

// CreateSessionOutput contains the result of creating a new session
type CreateSessionOutput struct {
	// Session is the newly created session
	Session *models.Session
}

// GetSessionInput contains parameters for retrieving a session
type GetSessionInput struct {
	// SessionID is the ID of the session to retrieve
	SessionID string
}

// GetSessionOutput contains the result of retrieving a session
type GetSessionOutput struct {
	// Session is the retrieved session
	Session *models.Session
}

// ListSessionsInput contains parameters for listing all sessions
type ListSessionsInput struct {
}

// ListSessionsOutput contains the result of listing all sessions
type ListSessionsOutput struct {
	// Sessions are all known sessions, newest first
	Sessions []*models.Session
}

// GetActiveSessionsInput contains parameters for listing active sessions
type GetActiveSessionsInput struct {
}

// GetActiveSessionsOutput contains the result of listing active sessions
type GetActiveSessionsOutput struct {
	// Sessions are the currently active sessions, newest first
	Sessions []*models.Session
}

// AddPlayerInput contains parameters for adding a player to a session
type AddPlayerInput struct {
	// SessionID is the ID of the session to add the player to
	SessionID string

	// PlayerName is the new player's display name
	PlayerName string
}

// AddPlayerOutput contains the result of adding a player
type AddPlayerOutput struct {
	// Player is the newly added player
	Player *models.Player

	// Session is the updated session
	Session *models.Session
}

// EndSessionInput contains parameters for ending a session
type EndSessionInput struct {
	// SessionID is the ID of the session to end
	SessionID string
}

// EndSessionOutput contains the result of ending a session
type EndSessionOutput struct {
	// Session is the ended session
	Session *models.Session
}

// JoinByPasscodeInput contains parameters for joining a session by passcode
type JoinByPasscodeInput struct {
	// Passcode is the 6-digit code to resolve
	Passcode string
}

// JoinByPasscodeOutput contains the result of joining by passcode
type JoinByPasscodeOutput struct {
	// Session is the active session holding the passcode
	Session *models.Session
}

// UpdatePasscodeInput contains parameters for replacing a session's passcode
type UpdatePasscodeInput struct {
	// SessionID is the ID of the session to update
	SessionID string

	// Passcode is the new 6-digit code
	Passcode string
}

// UpdatePasscodeOutput contains the result of replacing a passcode
type UpdatePasscodeOutput struct {
	// Session is the updated session
	Session *models.Session
}
