// Package httpapi exposes the session registry and score ledger over a JSON
// HTTP API.
package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phorm-app/phorm/internal/rounds"
	ledgerService "github.com/phorm-app/phorm/internal/services/ledger"
	sessionService "github.com/phorm-app/phorm/internal/services/session"
)

// Handler errors
var (
	ErrNilConfig         = errors.New("config cannot be nil")
	ErrNilSessionService = errors.New("session service cannot be nil")
	ErrNilLedgerService  = errors.New("ledger service cannot be nil")
)

// Config holds the dependencies for the HTTP handler
type Config struct {
	// SessionService manages sessions and players
	SessionService sessionService.Service

	// LedgerService manages games, totals, and standings
	LedgerService ledgerService.Service
}

// Handler wires the services into gin routes
type Handler struct {
	sessionService sessionService.Service
	ledgerService  ledgerService.Service
}

// New creates a new HTTP handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionService == nil {
		return nil, ErrNilSessionService
	}

	if cfg.LedgerService == nil {
		return nil, ErrNilLedgerService
	}

	return &Handler{
		sessionService: cfg.SessionService,
		ledgerService:  cfg.LedgerService,
	}, nil
}

// RegisterRoutes mounts all API routes on the router
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/ping", h.ping)

	api := router.Group("/api/v1")
	{
		api.POST("/sessions", h.createSession)
		api.GET("/sessions", h.listSessions)
		api.GET("/sessions/active", h.getActiveSessions)
		api.POST("/sessions/join", h.joinSession)
		api.GET("/sessions/:id", h.getSession)
		api.POST("/sessions/:id/players", h.addPlayer)
		api.POST("/sessions/:id/end", h.endSession)
		api.PUT("/sessions/:id/passcode", h.updatePasscode)
		api.POST("/sessions/:id/games", h.addGame)
		api.GET("/sessions/:id/games", h.listGames)
		api.GET("/sessions/:id/totals", h.getTotals)
		api.GET("/sessions/:id/results", h.getResults)
		api.PUT("/games/:id", h.updateGame)
		api.DELETE("/games/:id", h.removeGame)
	}
}

func (h *Handler) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func (h *Handler) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.sessionService.CreateSession(c.Request.Context(), &sessionService.CreateSessionInput{
		Name:        req.Name,
		PlayerNames: req.Players,
		Passcode:    req.Passcode,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newSessionResponse(output.Session))
}

func (h *Handler) listSessions(c *gin.Context) {
	output, err := h.sessionService.ListSessions(c.Request.Context(), &sessionService.ListSessionsInput{})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": newSessionResponses(output.Sessions)})
}

func (h *Handler) getActiveSessions(c *gin.Context) {
	output, err := h.sessionService.GetActiveSessions(c.Request.Context(), &sessionService.GetActiveSessionsInput{})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": newSessionResponses(output.Sessions)})
}

func (h *Handler) getSession(c *gin.Context) {
	output, err := h.sessionService.GetSession(c.Request.Context(), &sessionService.GetSessionInput{
		SessionID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(output.Session))
}

func (h *Handler) addPlayer(c *gin.Context) {
	var req addPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.sessionService.AddPlayer(c.Request.Context(), &sessionService.AddPlayerInput{
		SessionID:  c.Param("id"),
		PlayerName: req.Name,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"player":  newPlayerResponse(output.Player),
		"session": newSessionResponse(output.Session),
	})
}

func (h *Handler) endSession(c *gin.Context) {
	output, err := h.sessionService.EndSession(c.Request.Context(), &sessionService.EndSessionInput{
		SessionID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(output.Session))
}

func (h *Handler) joinSession(c *gin.Context) {
	var req joinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.sessionService.JoinByPasscode(c.Request.Context(), &sessionService.JoinByPasscodeInput{
		Passcode: req.Passcode,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(output.Session))
}

func (h *Handler) updatePasscode(c *gin.Context) {
	var req updatePasscodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.sessionService.UpdatePasscode(c.Request.Context(), &sessionService.UpdatePasscodeInput{
		SessionID: c.Param("id"),
		Passcode:  req.Passcode,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(output.Session))
}

func (h *Handler) addGame(c *gin.Context) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	points, err := rounds.ResolvePoints(req.Players, req.Entries, req.AutoCalculate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	output, err := h.ledgerService.AddGame(c.Request.Context(), &ledgerService.AddGameInput{
		SessionID:      c.Param("id"),
		Points:         points,
		AutoCalculated: req.AutoCalculate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newGameResponse(output.Game))
}

func (h *Handler) listGames(c *gin.Context) {
	output, err := h.ledgerService.ListGames(c.Request.Context(), &ledgerService.ListGamesInput{
		SessionID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"games": newGameResponses(output.Games)})
}

func (h *Handler) getTotals(c *gin.Context) {
	output, err := h.ledgerService.GetTotals(c.Request.Context(), &ledgerService.GetTotalsInput{
		SessionID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, totalsResponse{Totals: output.Totals})
}

func (h *Handler) getResults(c *gin.Context) {
	output, err := h.ledgerService.GetResults(c.Request.Context(), &ledgerService.GetResultsInput{
		SessionID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newResultsResponse(output))
}

func (h *Handler) updateGame(c *gin.Context) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	points, err := rounds.ResolvePoints(req.Players, req.Entries, req.AutoCalculate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	output, err := h.ledgerService.UpdateGame(c.Request.Context(), &ledgerService.UpdateGameInput{
		GameID:         c.Param("id"),
		Points:         points,
		AutoCalculated: req.AutoCalculate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGameResponse(output.Game))
}

func (h *Handler) removeGame(c *gin.Context) {
	_, err := h.ledgerService.RemoveGame(c.Request.Context(), &ledgerService.RemoveGameInput{
		GameID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError translates service and round resolution errors into HTTP
// status codes. Unrecognized errors are logged and reported as 500s without
// leaking their details.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, sessionService.ErrSessionNotFound),
		errors.Is(err, ledgerService.ErrSessionNotFound),
		errors.Is(err, ledgerService.ErrGameNotFound):
		return http.StatusNotFound

	case errors.Is(err, sessionService.ErrSessionAlreadyEnded),
		errors.Is(err, sessionService.ErrSessionInactive),
		errors.Is(err, sessionService.ErrPasscodeInUse):
		return http.StatusConflict

	case errors.Is(err, sessionService.ErrEmptyName),
		errors.Is(err, sessionService.ErrDuplicateName),
		errors.Is(err, sessionService.ErrInvalidPlayerCount),
		errors.Is(err, sessionService.ErrInvalidPasscode),
		errors.Is(err, ledgerService.ErrInvalidPlayerCount),
		errors.Is(err, ledgerService.ErrPlayerNotFound):
		return http.StatusBadRequest
	}

	var roundErr rounds.RoundError
	if errors.As(err, &roundErr) {
		return http.StatusBadRequest
	}

	var nonNumeric *rounds.NonNumericEntryError
	if errors.As(err, &nonNumeric) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
