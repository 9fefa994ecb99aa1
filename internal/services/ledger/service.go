package ledger

import (
	"context"
	"errors"

	"github.com/phorm-app/phorm/internal/common/clock"
	"github.com/phorm-app/phorm/internal/common/uuid"
	"github.com/phorm-app/phorm/internal/models"
	gameRepo "github.com/phorm-app/phorm/internal/repositories/game"
	sessionRepo "github.com/phorm-app/phorm/internal/repositories/session"
	"github.com/phorm-app/phorm/internal/standings"
)

// Config holds the dependencies for the ledger service
type Config struct {
	// GameRepo persists games
	GameRepo gameRepo.Repository

	// SessionRepo resolves the owning sessions and their player sets
	SessionRepo sessionRepo.Repository

	// Clock supplies timestamps
	Clock clock.Clock

	// UUIDGenerator produces game IDs
	UUIDGenerator uuid.UUID
}

// service implements the Service interface
type service struct {
	gameRepo    gameRepo.Repository
	sessionRepo sessionRepo.Repository
	clock       clock.Clock
	uuidGen     uuid.UUID
}

// New creates a new ledger service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.GameRepo == nil {
		return nil, ErrNilGameRepo
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	return &service{
		gameRepo:    cfg.GameRepo,
		sessionRepo: cfg.SessionRepo,
		clock:       cfg.Clock,
		uuidGen:     cfg.UUIDGenerator,
	}, nil
}

// AddGame appends a scored round to a session
func (s *service) AddGame(ctx context.Context, input *AddGameInput) (*AddGameOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	session, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if err := validatePoints(session, input.Points); err != nil {
		return nil, err
	}

	games, err := s.gameRepo.ListGamesBySession(ctx, &gameRepo.ListGamesBySessionInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return nil, err
	}

	// Next number is max+1, not count+1: a removed game leaves its gap and
	// numbering continues past it
	gameNumber := 1
	for _, existing := range games.Games {
		if existing.GameNumber >= gameNumber {
			gameNumber = existing.GameNumber + 1
		}
	}

	now := s.clock.Now()
	game := &models.Game{
		ID:             s.uuidGen.NewUUID(),
		SessionID:      input.SessionID,
		GameNumber:     gameNumber,
		Points:         input.Points,
		AutoCalculated: input.AutoCalculated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.gameRepo.SaveGame(ctx, &gameRepo.SaveGameInput{
		Game: game,
	})
	if err != nil {
		return nil, err
	}

	return &AddGameOutput{
		Game: game,
	}, nil
}

// UpdateGame overwrites a game's points and auto-calculated flag
func (s *service) UpdateGame(ctx context.Context, input *UpdateGameInput) (*UpdateGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	session, err := s.getSession(ctx, game.SessionID)
	if err != nil {
		return nil, err
	}

	if err := validatePoints(session, input.Points); err != nil {
		return nil, err
	}

	game.Points = input.Points
	game.AutoCalculated = input.AutoCalculated
	game.UpdatedAt = s.clock.Now()

	err = s.gameRepo.SaveGame(ctx, &gameRepo.SaveGameInput{
		Game: game,
	})
	if err != nil {
		return nil, err
	}

	return &UpdateGameOutput{
		Game: game,
	}, nil
}

// RemoveGame deletes a game. Remaining games are not renumbered.
func (s *service) RemoveGame(ctx context.Context, input *RemoveGameInput) (*RemoveGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	err := s.gameRepo.DeleteGame(ctx, &gameRepo.DeleteGameInput{
		GameID: input.GameID,
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	return &RemoveGameOutput{}, nil
}

// ListGames retrieves a session's games in ascending game number order. An
// unknown session and a session with no games both yield an empty list.
func (s *service) ListGames(ctx context.Context, input *ListGamesInput) (*ListGamesOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	games, err := s.gameRepo.ListGamesBySession(ctx, &gameRepo.ListGamesBySessionInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return nil, err
	}

	return &ListGamesOutput{
		Games: games.Games,
	}, nil
}

// GetTotals computes per-player point totals across all of a session's games
func (s *service) GetTotals(ctx context.Context, input *GetTotalsInput) (*GetTotalsOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	session, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	games, err := s.gameRepo.ListGamesBySession(ctx, &gameRepo.ListGamesBySessionInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return nil, err
	}

	return &GetTotalsOutput{
		Totals: sumTotals(session, games.Games),
	}, nil
}

// GetResults retrieves a session together with its games, totals, and
// standings
func (s *service) GetResults(ctx context.Context, input *GetResultsInput) (*GetResultsOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	session, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	games, err := s.gameRepo.ListGamesBySession(ctx, &gameRepo.ListGamesBySessionInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return nil, err
	}

	totals := sumTotals(session, games.Games)

	return &GetResultsOutput{
		Session:    session,
		Games:      games.Games,
		Totals:     totals,
		Standings:  standings.Compute(session.Players, totals),
		TotalGames: len(games.Games),
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

// getGame fetches a game, translating the repository sentinel into the
// service error
func (s *service) getGame(ctx context.Context, gameID string) (*models.Game, error) {
	game, err := s.gameRepo.GetGame(ctx, &gameRepo.GetGameInput{
		GameID: gameID,
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	return game, nil
}

// validatePoints rejects a points map that doesn't describe a playable
// round: at least two participants, all of them current players of the
// session
func validatePoints(session *models.Session, points map[string]float64) error {
	if len(points) < 2 {
		return ErrInvalidPlayerCount
	}

	known := make(map[string]struct{}, len(session.Players))
	for _, player := range session.Players {
		known[player.ID] = struct{}{}
	}

	for playerID := range points {
		if _, ok := known[playerID]; !ok {
			return ErrPlayerNotFound
		}
	}

	return nil
}

// sumTotals aggregates game points per current player. Players with no
// games total zero; point entries for unrecognized player IDs are skipped
// so historical games stay displayable.
func sumTotals(session *models.Session, games []*models.Game) map[string]float64 {
	totals := make(map[string]float64, len(session.Players))
	for _, player := range session.Players {
		totals[player.ID] = 0
	}

	for _, game := range games {
		for playerID, points := range game.Points {
			if _, ok := totals[playerID]; ok {
				totals[playerID] += points
			}
		}
	}

	return totals
}
