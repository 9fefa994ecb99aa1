package session

// SessionError is a custom error type for session-related errors
type SessionError string

// Error implements the error interface
func (e SessionError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrSessionNotFound      SessionError = "session not found"
	ErrSessionAlreadyEnded  SessionError = "session has already ended"
	ErrSessionInactive      SessionError = "session is not active"
	ErrInvalidPlayerCount   SessionError = "a session needs at least two players"
	ErrEmptyName            SessionError = "name cannot be empty"
	ErrDuplicateName        SessionError = "a player with that name is already in the session"
	ErrInvalidPasscode      SessionError = "passcode must be exactly 6 digits"
	ErrPasscodeInUse        SessionError = "passcode is already held by an active session"
	ErrNilConfig            SessionError = "config cannot be nil"
	ErrNilSessionRepo       SessionError = "session repository cannot be nil"
	ErrNilPasscodeGenerator SessionError = "passcode generator cannot be nil"
	ErrNilClock             SessionError = "clock cannot be nil"
	ErrNilUUIDGenerator     SessionError = "UUID generator cannot be nil"
)
