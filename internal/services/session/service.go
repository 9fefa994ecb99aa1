package session

import (
	"context"
	"errors"
	"strings"

	"github.com/phorm-app/phorm/internal/common/clock"
	"github.com/phorm-app/phorm/internal/common/uuid"
	"github.com/phorm-app/phorm/internal/models"
	"github.com/phorm-app/phorm/internal/passcode"
	sessionRepo "github.com/phorm-app/phorm/internal/repositories/session"
)

// Config holds the dependencies and settings for the session service
type Config struct {
	// SessionRepo persists sessions
	SessionRepo sessionRepo.Repository

	// PasscodeGenerator produces join codes
	PasscodeGenerator passcode.Generator

	// Clock supplies timestamps
	Clock clock.Clock

	// UUIDGenerator produces session and player IDs
	UUIDGenerator uuid.UUID
}

// service implements the Service interface
type service struct {
	sessionRepo sessionRepo.Repository
	passcodeGen passcode.Generator
	clock       clock.Clock
	uuidGen     uuid.UUID
}

// New creates a new session service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.PasscodeGenerator == nil {
		return nil, ErrNilPasscodeGenerator
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	return &service{
		sessionRepo: cfg.SessionRepo,
		passcodeGen: cfg.PasscodeGenerator,
		clock:       cfg.Clock,
		uuidGen:     cfg.UUIDGenerator,
	}, nil
}

// CreateSession creates a new active session with its initial players
func (s *service) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	// Build the player set from the non-blank names, rejecting duplicates so
	// the per-session name invariant holds from the start
	players := make([]*models.Player, 0, len(input.PlayerNames))
	for _, rawName := range input.PlayerNames {
		playerName := strings.TrimSpace(rawName)
		if playerName == "" {
			continue
		}

		if findPlayerByName(players, playerName) != nil {
			return nil, ErrDuplicateName
		}

		players = append(players, &models.Player{
			ID:   s.uuidGen.NewUUID(),
			Name: playerName,
		})
	}

	if len(players) < 2 {
		return nil, ErrInvalidPlayerCount
	}

	code, err := s.resolvePasscode(ctx, input.Passcode)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	session := &models.Session{
		ID:        s.uuidGen.NewUUID(),
		Name:      name,
		Players:   players,
		Passcode:  code,
		Active:    true,
		CreatedBy: input.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: session,
	})
	if err != nil {
		return nil, err
	}

	return &CreateSessionOutput{
		Session: session,
	}, nil
}

// resolvePasscode validates a caller-supplied passcode or generates a fresh
// one unique among active sessions
func (s *service) resolvePasscode(ctx context.Context, supplied string) (string, error) {
	if supplied != "" {
		if !passcode.IsValid(supplied) {
			return "", ErrInvalidPasscode
		}

		inUse, err := s.sessionRepo.PasscodeInUse(ctx, &sessionRepo.PasscodeInUseInput{
			Passcode: supplied,
		})
		if err != nil {
			return "", err
		}
		if inUse {
			return "", ErrPasscodeInUse
		}

		return supplied, nil
	}

	return s.passcodeGen.GenerateUnique(ctx, func(ctx context.Context, candidate string) (bool, error) {
		return s.sessionRepo.PasscodeInUse(ctx, &sessionRepo.PasscodeInUseInput{
			Passcode: candidate,
		})
	})
}

// GetSession retrieves a session by ID
func (s *service) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	session, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	return &GetSessionOutput{
		Session: session,
	}, nil
}

// ListSessions retrieves all sessions, newest first
func (s *service) ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	output, err := s.sessionRepo.ListSessions(ctx, &sessionRepo.ListSessionsInput{})
	if err != nil {
		return nil, err
	}

	return &ListSessionsOutput{
		Sessions: output.Sessions,
	}, nil
}

// GetActiveSessions retrieves all currently active sessions
func (s *service) GetActiveSessions(ctx context.Context, input *GetActiveSessionsInput) (*GetActiveSessionsOutput, error) {
	output, err := s.sessionRepo.GetActiveSessions(ctx, &sessionRepo.GetActiveSessionsInput{})
	if err != nil {
		return nil, err
	}

	return &GetActiveSessionsOutput{
		Sessions: output.Sessions,
	}, nil
}

// AddPlayer appends a new named player to an existing session. Players are
// never removed; games may already reference them.
func (s *service) AddPlayer(ctx context.Context, input *AddPlayerInput) (*AddPlayerOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	session, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	playerName := strings.TrimSpace(input.PlayerName)
	if playerName == "" {
		return nil, ErrEmptyName
	}

	if findPlayerByName(session.Players, playerName) != nil {
		return nil, ErrDuplicateName
	}

	player := &models.Player{
		ID:   s.uuidGen.NewUUID(),
		Name: playerName,
	}

	session.Players = append(session.Players, player)
	session.UpdatedAt = s.clock.Now()

	err = s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: session,
	})
	if err != nil {
		return nil, err
	}

	return &AddPlayerOutput{
		Player:  player,
		Session: session,
	}, nil
}

// EndSession marks an active session as ended. The session and its games
// remain readable as history.
func (s *service) EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	session, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if !session.Active {
		return nil, ErrSessionAlreadyEnded
	}

	now := s.clock.Now()
	session.Active = false
	session.EndedAt = &now
	session.UpdatedAt = now

	err = s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: session,
	})
	if err != nil {
		return nil, err
	}

	return &EndSessionOutput{
		Session: session,
	}, nil
}

// JoinByPasscode resolves a passcode to the active session holding it
func (s *service) JoinByPasscode(ctx context.Context, input *JoinByPasscodeInput) (*JoinByPasscodeOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if !passcode.IsValid(input.Passcode) {
		return nil, ErrInvalidPasscode
	}

	session, err := s.sessionRepo.GetActiveSessionByPasscode(ctx, &sessionRepo.GetActiveSessionByPasscodeInput{
		Passcode: input.Passcode,
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return &JoinByPasscodeOutput{
		Session: session,
	}, nil
}

// UpdatePasscode replaces an active session's passcode
func (s *service) UpdatePasscode(ctx context.Context, input *UpdatePasscodeInput) (*UpdatePasscodeOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	if !passcode.IsValid(input.Passcode) {
		return nil, ErrInvalidPasscode
	}

	session, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if !session.Active {
		return nil, ErrSessionInactive
	}

	// Re-submitting the current passcode is a no-op
	if session.Passcode == input.Passcode {
		return &UpdatePasscodeOutput{
			Session: session,
		}, nil
	}

	inUse, err := s.sessionRepo.PasscodeInUse(ctx, &sessionRepo.PasscodeInUseInput{
		Passcode: input.Passcode,
	})
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, ErrPasscodeInUse
	}

	session.Passcode = input.Passcode
	session.UpdatedAt = s.clock.Now()

	err = s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: session,
	})
	if err != nil {
		return nil, err
	}

	return &UpdatePasscodeOutput{
		Session: session,
	}, nil
}

// getSession fetches a session, translating the repository sentinel into the
// service error
func (s *service) getSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
		SessionID: sessionID,
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return session, nil
}

// findPlayerByName finds a player by trimmed, case-insensitive name
func findPlayerByName(players []*models.Player, name string) *models.Player {
	for _, player := range players {
		if strings.EqualFold(player.Name, name) {
			return player
		}
	}
	return nil
}
