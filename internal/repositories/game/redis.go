package game

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
	gameKeyPrefix         = "game:"
	sessionGamesKeyPrefix = "session_games:" // Index of games per session, scored by game number
)

// ErrGameNotFound is returned when a game is not found
var ErrGameNotFound = errors.New("game not found")

// Config holds configuration for the Redis game repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed game repository
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

// SaveGame persists a game to Redis and indexes it under its session,
// scored by game number so listings come back in round order
func (r *redisRepository) SaveGame(ctx context.Context, input *SaveGameInput) error {
	if input == nil || input.Game == nil {
		return errors.New("input and game cannot be nil")
	}

	game := input.Game
	if game.ID == "" {
		return errors.New("game ID cannot be empty")
	}

	if game.SessionID == "" {
		return errors.New("game session ID cannot be empty")
	}

	// Marshal the game to JSON
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	// Create a Redis transaction
	pipe := r.client.Pipeline()

	// Save the game
	gameKey := fmt.Sprintf("%s%s", gameKeyPrefix, game.ID)
	pipe.Set(ctx, gameKey, gameJSON, 0)

	// Index the game under its session
	sessionGamesKey := fmt.Sprintf("%s%s", sessionGamesKeyPrefix, game.SessionID)
	pipe.ZAdd(ctx, sessionGamesKey, redis.Z{
		Score:  float64(game.GameNumber),
		Member: game.ID,
	})

	// Execute the transaction
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

// GetGame retrieves a game by ID from Redis
func (r *redisRepository) GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	// Get the game from Redis
	gameKey := fmt.Sprintf("%s%s", gameKeyPrefix, input.GameID)
	gameJSON, err := r.client.Get(ctx, gameKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	// Unmarshal the game from JSON
	var game models.Game
	if err := json.Unmarshal([]byte(gameJSON), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}

// DeleteGame removes a game from Redis. Remaining games keep their numbers,
// the gap left behind is intentional.
func (r *redisRepository) DeleteGame(ctx context.Context, input *DeleteGameInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	// Get the game first to find its session index
	game, err := r.GetGame(ctx, &GetGameInput{
		GameID: input.GameID,
	})
	if err != nil {
		return err
	}

	// Create a Redis transaction
	pipe := r.client.Pipeline()

	// Delete the game
	gameKey := fmt.Sprintf("%s%s", gameKeyPrefix, input.GameID)
	pipe.Del(ctx, gameKey)

	// Remove the game from its session's index
	sessionGamesKey := fmt.Sprintf("%s%s", sessionGamesKeyPrefix, game.SessionID)
	pipe.ZRem(ctx, sessionGamesKey, input.GameID)

	// Execute the transaction
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

// ListGamesBySession retrieves all games for a session from Redis in
// ascending game number order
func (r *redisRepository) ListGamesBySession(ctx context.Context, input *ListGamesBySessionInput) (*ListGamesBySessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	// Get the game IDs for this session in score order
	sessionGamesKey := fmt.Sprintf("%s%s", sessionGamesKeyPrefix, input.SessionID)
	gameIDs, err := r.client.ZRange(ctx, sessionGamesKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get game IDs for session: %w", err)
	}

	// If there are no games, return an empty slice
	if len(gameIDs) == 0 {
		return &ListGamesBySessionOutput{
			Games: []*models.Game{},
		}, nil
	}

	// Get all games in one round trip using a pipeline
	pipe := r.client.Pipeline()
	commands := make([]*redis.StringCmd, len(gameIDs))

	for i, gameID := range gameIDs {
		gameKey := fmt.Sprintf("%s%s", gameKeyPrefix, gameID)
		commands[i] = pipe.Get(ctx, gameKey)
	}

	// Execute the pipeline
	_, err = pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}

	// Process the results
	games := make([]*models.Game, 0, len(gameIDs))
	for i, cmd := range commands {
		gameJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Game was deleted between getting the IDs and the fetch
				continue
			}
			return nil, fmt.Errorf("failed to get game %s: %w", gameIDs[i], err)
		}

		var game models.Game
		if err := json.Unmarshal([]byte(gameJSON), &game); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game %s: %w", gameIDs[i], err)
		}

		games = append(games, &game)
	}

	// The index keeps score order, re-assert it in case of a re-scored save
	sort.Slice(games, func(i, j int) bool {
		return games[i].GameNumber < games[j].GameNumber
	})

	return &ListGamesBySessionOutput{
		Games: games,
	}, nil
}
