package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/phorm-app/phorm/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	sessionKeyPrefix  = "session:"
	passcodeKeyPrefix = "passcode:"
	activeSessionsKey = "active_sessions"
	sessionsByCreated = "sessions:by_created"
)

// ErrSessionNotFound is returned when a session is not found
var ErrSessionNotFound = errors.New("session not found")

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveSession persists a session to Redis and keeps the active-session set
// and the passcode mapping in step with it. The passcode key exists exactly
// while the owning session is active, which is what scopes passcode
// uniqueness to active sessions.
func (r *redisRepository) SaveSession(ctx context.Context, input *SaveSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	session := input.Session
	if session.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	// Look up the previous version so a replaced passcode releases its
	// mapping. A missing record means this is the first save.
	previous, err := r.GetSession(ctx, &GetSessionInput{SessionID: session.ID})
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}

	// Marshal the session to JSON
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Create a Redis transaction
	pipe := r.client.Pipeline()

	// Save the session
	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, session.ID)
	pipe.Set(ctx, sessionKey, sessionJSON, 0)

	// Index the session by creation time for listing
	pipe.ZAdd(ctx, sessionsByCreated, redis.Z{
		Score:  float64(session.CreatedAt.UnixNano()),
		Member: session.ID,
	})

	// Release the old passcode mapping when the passcode changed, but only
	// if it still points at this session.
	if previous != nil && previous.Passcode != "" && previous.Passcode != session.Passcode {
		oldKey := fmt.Sprintf("%s%s", passcodeKeyPrefix, previous.Passcode)
		holder, err := r.client.Get(ctx, oldKey).Result()
		if err == nil && holder == session.ID {
			pipe.Del(ctx, oldKey)
		}
	}

	if session.Active {
		pipe.SAdd(ctx, activeSessionsKey, session.ID)
		if session.Passcode != "" {
			passcodeKey := fmt.Sprintf("%s%s", passcodeKeyPrefix, session.Passcode)
			pipe.Set(ctx, passcodeKey, session.ID, 0)
		}
	} else {
		pipe.SRem(ctx, activeSessionsKey, session.ID)
	}

	// Execute the transaction
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	// An ended session frees its passcode for reuse. Delete the mapping only
	// if it still points at this session so a newly created session that
	// already claimed the code is left alone.
	if !session.Active && session.Passcode != "" {
		passcodeKey := fmt.Sprintf("%s%s", passcodeKeyPrefix, session.Passcode)
		holder, err := r.client.Get(ctx, passcodeKey).Result()
		if err == nil && holder == session.ID {
			r.client.Del(ctx, passcodeKey)
		}
	}

	return nil
}

// GetSession retrieves a session by ID from Redis
func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	// Get the session from Redis
	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.SessionID)
	sessionJSON, err := r.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	// Unmarshal the session from JSON
	var session models.Session
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// GetActiveSessionByPasscode retrieves the active session currently holding
// a passcode from Redis
func (r *redisRepository) GetActiveSessionByPasscode(ctx context.Context, input *GetActiveSessionByPasscodeInput) (*models.Session, error) {
	if input == nil || input.Passcode == "" {
		return nil, errors.New("input and passcode cannot be empty")
	}

	// Get the session ID from the passcode mapping
	passcodeKey := fmt.Sprintf("%s%s", passcodeKeyPrefix, input.Passcode)
	sessionID, err := r.client.Get(ctx, passcodeKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session ID for passcode: %w", err)
	}

	session, err := r.GetSession(ctx, &GetSessionInput{
		SessionID: sessionID,
	})
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			// Session was deleted out from under the mapping, clear it
			r.client.Del(ctx, passcodeKey)
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	// A stale mapping must not resolve to an ended or re-coded session
	if !session.Active || session.Passcode != input.Passcode {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// PasscodeInUse reports whether an active session currently holds a passcode
func (r *redisRepository) PasscodeInUse(ctx context.Context, input *PasscodeInUseInput) (bool, error) {
	if input == nil || input.Passcode == "" {
		return false, errors.New("input and passcode cannot be empty")
	}

	passcodeKey := fmt.Sprintf("%s%s", passcodeKeyPrefix, input.Passcode)
	count, err := r.client.Exists(ctx, passcodeKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check passcode: %w", err)
	}

	return count > 0, nil
}

// ListSessions retrieves all sessions from Redis, newest first
func (r *redisRepository) ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	// Get all session IDs in reverse creation order
	sessionIDs, err := r.client.ZRevRange(ctx, sessionsByCreated, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session IDs: %w", err)
	}

	sessions, err := r.getSessions(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}

	return &ListSessionsOutput{
		Sessions: sessions,
	}, nil
}

// GetActiveSessions retrieves all active sessions from Redis, newest first
func (r *redisRepository) GetActiveSessions(ctx context.Context, input *GetActiveSessionsInput) (*GetActiveSessionsOutput, error) {
	// Get all active session IDs from the set
	sessionIDs, err := r.client.SMembers(ctx, activeSessionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active session IDs: %w", err)
	}

	sessions, err := r.getSessions(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}

	// Set membership is unordered, sort here
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})

	return &GetActiveSessionsOutput{
		Sessions: sessions,
	}, nil
}

// getSessions fetches a batch of sessions by ID, preserving the input order
// and skipping IDs that no longer resolve
func (r *redisRepository) getSessions(ctx context.Context, sessionIDs []string) ([]*models.Session, error) {
	if len(sessionIDs) == 0 {
		return []*models.Session{}, nil
	}

	// Get all sessions in one round trip using a pipeline
	pipe := r.client.Pipeline()
	commands := make([]*redis.StringCmd, len(sessionIDs))

	for i, sessionID := range sessionIDs {
		sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, sessionID)
		commands[i] = pipe.Get(ctx, sessionKey)
	}

	// Execute the pipeline
	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}

	// Process the results
	sessions := make([]*models.Session, 0, len(sessionIDs))
	for i, cmd := range commands {
		sessionJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Session was removed between getting the IDs and the fetch
				continue
			}
			return nil, fmt.Errorf("failed to get session %s: %w", sessionIDs[i], err)
		}

		var session models.Session
		if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionIDs[i], err)
		}

		sessions = append(sessions, &session)
	}

	return sessions, nil
}
