package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/phorm-app/phorm/internal/repositories/session Repository

import (
	"context"

	"github.com/phorm-app/phorm/internal/models"
)

// Repository defines the interface for session data persistence
type Repository interface {
	// SaveSession persists a session and maintains its indexes
	SaveSession(ctx context.Context, input *SaveSessionInput) error

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error)

	// GetActiveSessionByPasscode retrieves the active session holding a passcode
	GetActiveSessionByPasscode(ctx context.Context, input *GetActiveSessionByPasscodeInput) (*models.Session, error)

	// PasscodeInUse reports whether an active session currently holds the passcode
	PasscodeInUse(ctx context.Context, input *PasscodeInUseInput) (bool, error)

	// ListSessions retrieves all sessions, newest first
	ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error)

	// GetActiveSessions retrieves all currently active sessions, newest first
	GetActiveSessions(ctx context.Context, input *GetActiveSessionsInput) (*GetActiveSessionsOutput, error)
}
