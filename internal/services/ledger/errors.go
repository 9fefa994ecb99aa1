package ledger

// LedgerError is a custom error type for score ledger errors
type LedgerError string

// Error implements the error interface
func (e LedgerError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrSessionNotFound    LedgerError = "session not found"
	ErrGameNotFound       LedgerError = "game not found"
	ErrPlayerNotFound     LedgerError = "points reference a player not in the session"
	ErrInvalidPlayerCount LedgerError = "a game needs points for at least two players"
	ErrNilConfig          LedgerError = "config cannot be nil"
	ErrNilGameRepo        LedgerError = "game repository cannot be nil"
	ErrNilSessionRepo     LedgerError = "session repository cannot be nil"
	ErrNilClock           LedgerError = "clock cannot be nil"
	ErrNilUUIDGenerator   LedgerError = "UUID generator cannot be nil"
)
