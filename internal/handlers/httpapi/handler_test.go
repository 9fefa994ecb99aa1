package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/phorm-app/phorm/internal/common/clock"
	"github.com/phorm-app/phorm/internal/common/uuid"
	"github.com/phorm-app/phorm/internal/passcode"
	gameRepo "github.com/phorm-app/phorm/internal/repositories/game"
	sessionRepo "github.com/phorm-app/phorm/internal/repositories/session"
	ledgerService "github.com/phorm-app/phorm/internal/services/ledger"
	sessionService "github.com/phorm-app/phorm/internal/services/session"
)

// HandlerTestSuite drives the full stack over an in-process redis: real
// repositories, real services, real routes.
type HandlerTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *redis.Client
	router    *gin.Engine
}

func (s *HandlerTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.miniRedis = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)

	games, err := gameRepo.NewRedis(&gameRepo.Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)

	sessionSvc, err := sessionService.New(&sessionService.Config{
		SessionRepo:       sessions,
		PasscodeGenerator: passcode.New(&passcode.Config{Seed: 42}),
		Clock:             &clock.DefaultClock{},
		UUIDGenerator:     uuid.New(),
	})
	s.Require().NoError(err)

	ledgerSvc, err := ledgerService.New(&ledgerService.Config{
		GameRepo:      games,
		SessionRepo:   sessions,
		Clock:         &clock.DefaultClock{},
		UUIDGenerator: uuid.New(),
	})
	s.Require().NoError(err)

	handler, err := New(&Config{
		SessionService: sessionSvc,
		LedgerService:  ledgerSvc,
	})
	s.Require().NoError(err)

	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	handler.RegisterRoutes(s.router)
}

func (s *HandlerTestSuite) TearDownTest() {
	s.Require().NoError(s.client.Close())
	s.miniRedis.Close()
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

// do issues a request with a JSON body and decodes the JSON response
func (s *HandlerTestSuite) do(method, path string, body any) (int, map[string]any) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)

	var decoded map[string]any
	if len(recorder.Body.Bytes()) > 0 {
		s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}

	return recorder.Code, decoded
}

// createSession creates a session for Alice, Bob, and Carol and returns the
// session ID and a name-to-player-ID lookup.
func (s *HandlerTestSuite) createSession() (string, map[string]string) {
	status, body := s.do(http.MethodPost, "/api/v1/sessions", gin.H{
		"name":    "Game Night",
		"players": []string{"Alice", "Bob", "Carol"},
	})
	s.Require().Equal(http.StatusCreated, status)

	sessionID := body["id"].(string)
	s.Require().NotEmpty(sessionID)

	playerIDs := make(map[string]string)
	for _, entry := range body["players"].([]any) {
		player := entry.(map[string]any)
		playerIDs[player["name"].(string)] = player["id"].(string)
	}
	s.Require().Len(playerIDs, 3)

	return sessionID, playerIDs
}

func (s *HandlerTestSuite) TestPing() {
	status, body := s.do(http.MethodGet, "/ping", nil)
	s.Equal(http.StatusOK, status)
	s.Equal("pong", body["message"])
}

func (s *HandlerTestSuite) TestCreateSession() {
	status, body := s.do(http.MethodPost, "/api/v1/sessions", gin.H{
		"name":     "Game Night",
		"players":  []string{"Alice", "Bob", "Carol"},
		"passcode": "123456",
	})
	s.Require().Equal(http.StatusCreated, status)

	s.Equal("Game Night", body["name"])
	s.Equal("123456", body["passcode"])
	s.Equal(true, body["active"])
	s.Len(body["players"].([]any), 3)
}

func (s *HandlerTestSuite) TestCreateSessionSinglePlayerRejected() {
	status, body := s.do(http.MethodPost, "/api/v1/sessions", gin.H{
		"name":    "Solo",
		"players": []string{"OnlyOnePlayer"},
	})
	s.Equal(http.StatusBadRequest, status)
	s.NotEmpty(body["error"])
}

func (s *HandlerTestSuite) TestCreateSessionGeneratesValidPasscode() {
	status, body := s.do(http.MethodPost, "/api/v1/sessions", gin.H{
		"name":    "Game Night",
		"players": []string{"Alice", "Bob"},
	})
	s.Require().Equal(http.StatusCreated, status)
	s.Regexp(`^\d{6}$`, body["passcode"])
}

func (s *HandlerTestSuite) TestCreateSessionPasscodeConflict() {
	sessionID, _ := s.createSession()
	_, body := s.do(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	code := body["passcode"].(string)

	status, body := s.do(http.MethodPost, "/api/v1/sessions", gin.H{
		"name":     "Second Night",
		"players":  []string{"Dave", "Erin"},
		"passcode": code,
	})
	s.Equal(http.StatusConflict, status)
	s.NotEmpty(body["error"])
}

func (s *HandlerTestSuite) TestGetSessionNotFound() {
	status, body := s.do(http.MethodGet, "/api/v1/sessions/no-such-session", nil)
	s.Equal(http.StatusNotFound, status)
	s.NotEmpty(body["error"])
}

func (s *HandlerTestSuite) TestAddPlayerAndDuplicateRejected() {
	sessionID, _ := s.createSession()

	status, body := s.do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/players", sessionID), gin.H{
		"name": "Dave",
	})
	s.Require().Equal(http.StatusCreated, status)
	player := body["player"].(map[string]any)
	s.Equal("Dave", player["name"])

	// Same name modulo case and whitespace is rejected
	for _, name := range []string{"alice", "ALICE", " Alice "} {
		status, body = s.do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/players", sessionID), gin.H{
			"name": name,
		})
		s.Equal(http.StatusBadRequest, status, "name %q should be rejected", name)
		s.NotEmpty(body["error"])
	}
}

func (s *HandlerTestSuite) TestJoinByPasscode() {
	sessionID, _ := s.createSession()
	_, body := s.do(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	code := body["passcode"].(string)

	status, body := s.do(http.MethodPost, "/api/v1/sessions/join", gin.H{
		"passcode": code,
	})
	s.Require().Equal(http.StatusOK, status)
	s.Equal(sessionID, body["id"])

	status, _ = s.do(http.MethodPost, "/api/v1/sessions/join", gin.H{
		"passcode": "000000",
	})
	s.Equal(http.StatusNotFound, status)

	status, _ = s.do(http.MethodPost, "/api/v1/sessions/join", gin.H{
		"passcode": "12ab",
	})
	s.Equal(http.StatusBadRequest, status)
}

func (s *HandlerTestSuite) TestEndSession() {
	sessionID, _ := s.createSession()

	status, body := s.do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/end", sessionID), nil)
	s.Require().Equal(http.StatusOK, status)
	s.Equal(false, body["active"])
	s.NotEmpty(body["endedAt"])

	// Ending again conflicts
	status, _ = s.do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/end", sessionID), nil)
	s.Equal(http.StatusConflict, status)
}

func (s *HandlerTestSuite) TestUpdatePasscode() {
	sessionID, _ := s.createSession()

	status, body := s.do(http.MethodPut, fmt.Sprintf("/api/v1/sessions/%s/passcode", sessionID), gin.H{
		"passcode": "777777",
	})
	s.Require().Equal(http.StatusOK, status)
	s.Equal("777777", body["passcode"])

	// The new code resolves to the session
	status, body = s.do(http.MethodPost, "/api/v1/sessions/join", gin.H{
		"passcode": "777777",
	})
	s.Require().Equal(http.StatusOK, status)
	s.Equal(sessionID, body["id"])
}

func (s *HandlerTestSuite) TestAutoCalculatedGameAndTotals() {
	sessionID, ids := s.createSession()

	// Alice 5, Bob 3, Carol omitted: auto-calculate fills in -8
	status, body := s.do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/games", sessionID), gin.H{
		"players": []string{ids["Alice"], ids["Bob"], ids["Carol"]},
		"entries": gin.H{
			ids["Alice"]: "5",
			ids["Bob"]:   "3",
		},
		"autoCalculate": true,
	})
	s.Require().Equal(http.StatusCreated, status)
	s.Equal(float64(1), body["gameNumber"])
	s.Equal(true, body["autoCalculated"])

	points := body["points"].(map[string]any)
	s.Equal(float64(-8), points[ids["Carol"]])

	status, body = s.do(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%s/totals", sessionID), nil)
	s.Require().Equal(http.StatusOK, status)

	totals := body["totals"].(map[string]any)
	s.Equal(float64(5), totals[ids["Alice"]])
	s.Equal(float64(3), totals[ids["Bob"]])
	s.Equal(float64(-8), totals[ids["Carol"]])
}

func (s *HandlerTestSuite) TestManualGameAccumulatesTotals() {
	sessionID, ids := s.createSession()

	status, _ := s.do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/games", sessionID), gin.H{
		"players": []string{ids["Alice"], ids["Bob"], ids["Carol"]},
		"entries": gin.H{
			ids["Alice"]: "5",
			ids["Bob"]:   "3",
		},
		"autoCalculate": true,
	})
	s.Require().Equal(http.StatusCreated, status)

	status, body := s.do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/games", sessionID), gin.H{
		"players": []string{ids["Alice"], ids["Bob"], ids["Carol"]},
		"entries": gin.H{
			ids["Alice"]: "-2",
			ids["Bob"]:   "-2",
			ids["Carol"]: "4",
		},
	})
	s.Require().Equal(http.StatusCreated, status)
	s.Equal(float64(2), body["gameNumber"])
	s.Equal(false, body["autoCalculated"])

	status, body = s.do(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%s/totals", sessionID), nil)
	s.Require().Equal(http.StatusOK, status)

	totals := body["totals"].(map[string]any)
	s.Equal(float64(3), totals[ids["Alice"]])
	s.Equal(float64(1), totals[ids["Bob"]])
	s.Equal(float64(-4), totals[ids["Carol"]])
}

func (s *HandlerTestSuite) TestRemoveGameLeavesNumberingGap() {
	sessionID, ids := s.createSession()

	var gameIDs []string
	for _, entries := range []gin.H{
		{ids["Alice"]: "5", ids["Bob"]: "3", ids["Carol"]: "-8"},
		{ids["Alice"]: "-2", ids["Bob"]: "-2", ids["Carol"]: "4"},
	} {
		status, body := s.do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/games", sessionID), gin.H{
			"players": []string{ids["Alice"], ids["Bob"], ids["Carol"]},
			"entries": entries,
		})
		s.Require().Equal(http.StatusCreated, status)
		gameIDs = append(gameIDs, body["id"].(string))
	}

	status, _ := s.do(http.MethodDelete, "/api/v1/games/"+gameIDs[0], nil)
	s.Require().Equal(http.StatusNoContent, status)

	// Game 2 keeps its number, totals drop game 1's points
	status, body := s.do(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%s/games", sessionID), nil)
	s.Require().Equal(http.StatusOK, status)

	games := body["games"].([]any)
	s.Require().Len(games, 1)
	s.Equal(float64(2), games[0].(map[string]any)["gameNumber"])

	status, body = s.do(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%s/totals", sessionID), nil)
	s.Require().Equal(http.StatusOK, status)

	totals := body["totals"].(map[string]any)
	s.Equal(float64(-2), totals[ids["Alice"]])
	s.Equal(float64(-2), totals[ids["Bob"]])
	s.Equal(float64(4), totals[ids["Carol"]])

	// The next game numbers past the gap
	status, body = s.do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/games", sessionID), gin.H{
		"players": []string{ids["Alice"], ids["Bob"]},
		"entries": gin.H{ids["Alice"]: "1", ids["Bob"]: "-1"},
	})
	s.Require().Equal(http.StatusCreated, status)
	s.Equal(float64(3), body["gameNumber"])
}

func (s *HandlerTestSuite) TestAddGameNoSlotToAutoCalculate() {
	sessionID, ids := s.createSession()

	status, body := s.do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/games", sessionID), gin.H{
		"players": []string{ids["Alice"], ids["Bob"], ids["Carol"]},
		"entries": gin.H{
			ids["Alice"]: "5",
			ids["Bob"]:   "3",
			ids["Carol"]: "-8",
		},
		"autoCalculate": true,
	})
	s.Equal(http.StatusBadRequest, status)
	s.NotEmpty(body["error"])
}

func (s *HandlerTestSuite) TestAddGameNonNumericEntry() {
	sessionID, ids := s.createSession()

	status, body := s.do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/games", sessionID), gin.H{
		"players": []string{ids["Alice"], ids["Bob"]},
		"entries": gin.H{
			ids["Alice"]: "five",
			ids["Bob"]:   "3",
		},
	})
	s.Equal(http.StatusBadRequest, status)
	s.NotEmpty(body["error"])
}

func (s *HandlerTestSuite) TestUpdateGame() {
	sessionID, ids := s.createSession()

	status, body := s.do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/games", sessionID), gin.H{
		"players": []string{ids["Alice"], ids["Bob"]},
		"entries": gin.H{ids["Alice"]: "5", ids["Bob"]: "-5"},
	})
	s.Require().Equal(http.StatusCreated, status)
	gameID := body["id"].(string)

	status, body = s.do(http.MethodPut, "/api/v1/games/"+gameID, gin.H{
		"players": []string{ids["Alice"], ids["Bob"]},
		"entries": gin.H{ids["Alice"]: "2", ids["Bob"]: "-2"},
	})
	s.Require().Equal(http.StatusOK, status)
	s.Equal(float64(1), body["gameNumber"])

	points := body["points"].(map[string]any)
	s.Equal(float64(2), points[ids["Alice"]])
	s.Equal(float64(-2), points[ids["Bob"]])
}

func (s *HandlerTestSuite) TestRemoveGameNotFound() {
	status, body := s.do(http.MethodDelete, "/api/v1/games/no-such-game", nil)
	s.Equal(http.StatusNotFound, status)
	s.NotEmpty(body["error"])
}

func (s *HandlerTestSuite) TestGetResults() {
	sessionID, ids := s.createSession()

	status, _ := s.do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/games", sessionID), gin.H{
		"players": []string{ids["Alice"], ids["Bob"], ids["Carol"]},
		"entries": gin.H{
			ids["Alice"]: "5",
			ids["Bob"]:   "3",
		},
		"autoCalculate": true,
	})
	s.Require().Equal(http.StatusCreated, status)

	status, body := s.do(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%s/results", sessionID), nil)
	s.Require().Equal(http.StatusOK, status)

	s.Equal(float64(1), body["totalGames"])
	s.Len(body["games"].([]any), 1)

	// Lowest total first
	rows := body["standings"].([]any)
	s.Require().Len(rows, 3)
	first := rows[0].(map[string]any)
	s.Equal("Carol", first["player"].(map[string]any)["name"])
	s.Equal(float64(-8), first["total"])
	last := rows[2].(map[string]any)
	s.Equal("Alice", last["player"].(map[string]any)["name"])
}

func (s *HandlerTestSuite) TestListSessionsNewestFirst() {
	first, _ := s.createSession()

	status, body := s.do(http.MethodPost, "/api/v1/sessions", gin.H{
		"name":    "Later Night",
		"players": []string{"Dave", "Erin"},
	})
	s.Require().Equal(http.StatusCreated, status)
	second := body["id"].(string)

	status, body = s.do(http.MethodGet, "/api/v1/sessions", nil)
	s.Require().Equal(http.StatusOK, status)

	sessions := body["sessions"].([]any)
	s.Require().Len(sessions, 2)
	s.Equal(second, sessions[0].(map[string]any)["id"])
	s.Equal(first, sessions[1].(map[string]any)["id"])
}

func (s *HandlerTestSuite) TestActiveSessionsExcludeEnded() {
	first, _ := s.createSession()

	status, body := s.do(http.MethodPost, "/api/v1/sessions", gin.H{
		"name":    "Later Night",
		"players": []string{"Dave", "Erin"},
	})
	s.Require().Equal(http.StatusCreated, status)
	second := body["id"].(string)

	status, _ = s.do(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/end", first), nil)
	s.Require().Equal(http.StatusOK, status)

	status, body = s.do(http.MethodGet, "/api/v1/sessions/active", nil)
	s.Require().Equal(http.StatusOK, status)

	sessions := body["sessions"].([]any)
	s.Require().Len(sessions, 1)
	s.Equal(second, sessions[0].(map[string]any)["id"])
}
