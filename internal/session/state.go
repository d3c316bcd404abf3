package session

import "errors"

// State is the controller's position in the level state machine.
//
//	Idle ──Start──▶ LevelActive ──last hit──▶ LevelCleared ──▶ LevelActive
//	                     │
//	                  expiry
//	                     ▼
//	                LevelFailed ──Restart──▶ LevelActive
type State int

const (
	StateIdle State = iota
	StateLevelActive
	StateLevelCleared
	StateLevelFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLevelActive:
		return "active"
	case StateLevelCleared:
		return "cleared"
	case StateLevelFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrAlreadyStarted is returned by Start once the session has left Idle.
	ErrAlreadyStarted = errors.New("session: already started")

	// ErrNotActive is returned by drag and drop requests outside an active level.
	ErrNotActive = errors.New("session: no active level")

	// ErrInvalidTransition is returned by Restart outside LevelFailed.
	ErrInvalidTransition = errors.New("session: invalid state transition")

	// ErrInvalidBounds is returned for non-positive board dimensions.
	ErrInvalidBounds = errors.New("session: invalid board bounds")

	// ErrEmptyLayout is returned when the shape provider yields no shapes.
	ErrEmptyLayout = errors.New("session: layout produced no shapes")
)
