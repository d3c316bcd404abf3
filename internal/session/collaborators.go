package session

import (
	"context"
	"time"

	"github.com/vovakirdan/shape-drop/internal/shapes"
)

// LevelStats is the outcome record of one cleared level. It is built once
// and never modified.
type LevelStats struct {
	ID         string
	SessionID  string
	Player     string
	Timestamp  time.Time
	Duration   time.Duration // Time spent on the level
	TotalScore int
	LevelScore int
	Level      int // The level that was cleared
}

// StatsSink persists level outcomes.
type StatsSink interface {
	SaveLevelStats(ctx context.Context, stats LevelStats) error
}

// Executor runs tasks in the background. Submit must not block; it reports
// whether the task was accepted.
type Executor interface {
	Submit(task func(ctx context.Context) error) bool
}

// ShapeProvider generates the screen shapes for a level.
type ShapeProvider interface {
	Generate(level, width, height int) []shapes.Shape
}

// Timer is a countdown delivering a tick with the full duration on start,
// one tick per interval, and a single finish callback at zero.
// Callbacks must run on the goroutine that owns the controller.
type Timer interface {
	Start(total, interval time.Duration, onTick func(remaining time.Duration), onFinish func())
	Cancel()
}
