package session

import "context"

// Service defines the interface for session and player registry operations
type Service interface {
	// CreateSession creates a new active session with its initial players
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)

	// ListSessions retrieves all sessions, newest first
	ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error)

	// GetActiveSessions retrieves all currently active sessions
	GetActiveSessions(ctx context.Context, input *GetActiveSessionsInput) (*GetActiveSessionsOutput, error)

	// AddPlayer appends a new named player to an existing session
	AddPlayer(ctx context.Context, input *AddPlayerInput) (*AddPlayerOutput, error)

	// EndSession marks an active session as ended
	EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error)

	// JoinByPasscode resolves a passcode to the active session holding it
	JoinByPasscode(ctx context.Context, input *JoinByPasscodeInput) (*JoinByPasscodeOutput, error)

	// UpdatePasscode replaces an active session's passcode
	UpdatePasscode(ctx context.Context, input *UpdatePasscodeInput) (*UpdatePasscodeOutput, error)
}
