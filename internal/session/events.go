package session

import (
	"time"

	"github.com/vovakirdan/shape-drop/internal/shapes"
)

// Event is a change published by the controller to its observers.
type Event interface {
	sessionEvent()
}

// ShapesChanged carries the current screen shapes. The slice is owned by
// the receiver.
type ShapesChanged struct {
	Shapes []shapes.Shape
}

func (ShapesChanged) sessionEvent() {}

// TargetChanged carries the shape to match, or nil once it is cleared.
type TargetChanged struct {
	Target *shapes.Shape
}

func (TargetChanged) sessionEvent() {}

// ScoreChanged is sent whenever total or level score moves.
type ScoreChanged struct {
	Total int
	Level int
	Text  string
}

func (ScoreChanged) sessionEvent() {}

// TimeChanged is sent on every timer tick.
type TimeChanged struct {
	Remaining time.Duration
	Text      string
}

func (TimeChanged) sessionEvent() {}

// LevelChanged is sent when a level starts.
type LevelChanged struct {
	Level int
	Text  string
}

func (LevelChanged) sessionEvent() {}

// LevelWon is the one-shot signal for a cleared level.
type LevelWon struct {
	Stats LevelStats
}

func (LevelWon) sessionEvent() {}

// LevelLost is the one-shot signal for an expired timer.
type LevelLost struct {
	Level   int
	Penalty int // Unbanked level score taken off the total
}

func (LevelLost) sessionEvent() {}

// Observer receives controller events synchronously, on the goroutine that
// drives the controller.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnEvent calls f(e).
func (f ObserverFunc) OnEvent(e Event) {
	f(e)
}
