package session

import "github.com/phorm-app/phorm/internal/models"

type SaveSessionInput struct {
	Session *models.Session
}

type GetSessionInput struct {
	SessionID string
}

type GetActiveSessionByPasscodeInput struct {
	Passcode string
}

type PasscodeInUseInput struct {
	Passcode string
}

type ListSessionsInput struct {
}

type ListSessionsOutput struct {
	Sessions []*models.Session
}

type GetActiveSessionsInput struct {
}

type GetActiveSessionsOutput struct {
	Sessions []*models.Session
}
