package game

import "github.com/phorm-app/phorm/internal/models"

type SaveGameInput struct {
	Game *models.Game
}

type GetGameInput struct {
	GameID string
}

type DeleteGameInput struct {
	GameID string
}

type ListGamesBySessionInput struct {
	SessionID string
}

type ListGamesBySessionOutput struct {
	Games []*models.Game
}
