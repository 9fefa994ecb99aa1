package httpapi

import (
	"time"

	"github.com/phorm-app/phorm/internal/models"
	"github.com/phorm-app/phorm/internal/services/ledger"
	"github.com/phorm-app/phorm/internal/standings"
)

// createSessionRequest is the body for POST /sessions
type createSessionRequest struct {
	Name      string   `json:"name" binding:"required"`
	Players   []string `json:"players" binding:"required"`
	Passcode  string   `json:"passcode"`
	CreatedBy string   `json:"createdBy"`
}

// addPlayerRequest is the body for POST /sessions/:id/players
type addPlayerRequest struct {
	Name string `json:"name" binding:"required"`
}

// joinSessionRequest is the body for POST /sessions/join
type joinSessionRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

// updatePasscodeRequest is the body for PUT /sessions/:id/passcode
type updatePasscodeRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

// gameRequest is the body for POST /sessions/:id/games and PUT /games/:id.
// Entries carry the raw point values as entered, keyed by player ID; blank
// or missing values mean the player has no entry yet. With autoCalculate
// set, the one omitted player's value is inferred so the round sums to zero.
type gameRequest struct {
	Players       []string          `json:"players" binding:"required"`
	Entries       map[string]string `json:"entries" binding:"required"`
	AutoCalculate bool              `json:"autoCalculate"`
}

// playerResponse is the wire form of a player
type playerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// sessionResponse is the wire form of a session
type sessionResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Players   []playerResponse `json:"players"`
	Passcode  string           `json:"passcode"`
	Active    bool             `json:"active"`
	CreatedBy string           `json:"createdBy,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	EndedAt   *time.Time       `json:"endedAt,omitempty"`
}

// gameResponse is the wire form of a game
type gameResponse struct {
	ID             string             `json:"id"`
	SessionID      string             `json:"sessionId"`
	GameNumber     int                `json:"gameNumber"`
	Points         map[string]float64 `json:"points"`
	AutoCalculated bool               `json:"autoCalculated"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// standingResponse is one row of the ranked standings
type standingResponse struct {
	Player playerResponse `json:"player"`
	Total  float64        `json:"total"`
}

// totalsResponse is the body of GET /sessions/:id/totals
type totalsResponse struct {
	Totals map[string]float64 `json:"totals"`
}

// resultsResponse is the body of GET /sessions/:id/results
type resultsResponse struct {
	Session    sessionResponse    `json:"session"`
	Games      []gameResponse     `json:"games"`
	Totals     map[string]float64 `json:"totals"`
	Standings  []standingResponse `json:"standings"`
	TotalGames int                `json:"totalGames"`
}

func newPlayerResponse(player *models.Player) playerResponse {
	return playerResponse{
		ID:   player.ID,
		Name: player.Name,
	}
}

func newSessionResponse(session *models.Session) sessionResponse {
	players := make([]playerResponse, 0, len(session.Players))
	for _, player := range session.Players {
		players = append(players, newPlayerResponse(player))
	}

	return sessionResponse{
		ID:        session.ID,
		Name:      session.Name,
		Players:   players,
		Passcode:  session.Passcode,
		Active:    session.Active,
		CreatedBy: session.CreatedBy,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		EndedAt:   session.EndedAt,
	}
}

func newSessionResponses(sessions []*models.Session) []sessionResponse {
	responses := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, newSessionResponse(session))
	}
	return responses
}

func newGameResponse(game *models.Game) gameResponse {
	return gameResponse{
		ID:             game.ID,
		SessionID:      game.SessionID,
		GameNumber:     game.GameNumber,
		Points:         game.Points,
		AutoCalculated: game.AutoCalculated,
		CreatedAt:      game.CreatedAt,
		UpdatedAt:      game.UpdatedAt,
	}
}

func newGameResponses(games []*models.Game) []gameResponse {
	responses := make([]gameResponse, 0, len(games))
	for _, game := range games {
		responses = append(responses, newGameResponse(game))
	}
	return responses
}

func newStandingResponses(rows []standings.Standing) []standingResponse {
	responses := make([]standingResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, standingResponse{
			Player: newPlayerResponse(row.Player),
			Total:  row.Total,
		})
	}
	return responses
}

func newResultsResponse(output *ledger.GetResultsOutput) resultsResponse {
	return resultsResponse{
		Session:    newSessionResponse(output.Session),
		Games:      newGameResponses(output.Games),
		Totals:     output.Totals,
		Standings:  newStandingResponses(output.Standings),
		TotalGames: output.TotalGames,
	}
}
