// Package session implements the level session controller: the state
// machine behind one play session. It tracks the screen shapes, the shape
// the player drags, the countdown and the score, and reports every change
// to observers.
//
// A Controller is owned by a single goroutine. Timer callbacks must be
// delivered on that goroutine (see clock.Ticker's post hook); stats are
// handed to an Executor and never awaited.
package session

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/shape-drop/internal/core"
	"github.com/vovakirdan/shape-drop/internal/shapes"
)

// Default timing of the current product.
const (
	DefaultLevelDuration = 20 * time.Second
	DefaultTickInterval  = time.Second
	DefaultHitTolerance  = 0.5
)

// Options wires a Controller to its collaborators.
type Options struct {
	Provider ShapeProvider // Required
	Timer    Timer         // Required
	Sink     StatsSink     // Optional; nil disables persistence
	Executor Executor      // Required when Sink is set
	Logger   *log.Logger

	Rand *rand.Rand
	Now  func() time.Time

	// LevelDuration returns the countdown for a level.
	// Defaults to DefaultLevelDuration for every level.
	LevelDuration func(level int) time.Duration
	TickInterval  time.Duration

	// HitTolerance is the per-axis distance from a shape's centre, as a
	// fraction of its size, within which a drop counts as a hit.
	HitTolerance float64

	Player    string
	SessionID string
}

// Controller owns the mutable state of one play session.
type Controller struct {
	provider      ShapeProvider
	timer         Timer
	sink          StatsSink
	exec          Executor
	logger        *log.Logger
	rng           *rand.Rand
	now           func() time.Time
	levelDuration func(int) time.Duration
	tickInterval  time.Duration
	tolerance     float64
	player        string
	sessionID     string

	observers    []observerEntry
	nextObserver int

	state      State
	width      int
	height     int
	level      int
	totalScore int
	levelScore int
	remaining  time.Duration
	levelStart time.Time
	screen     []shapes.Shape
	target     *shapes.Shape
	timerRun   uint64
}

type observerEntry struct {
	id  int
	obs Observer
}

// NewController creates an idle controller at level 1 with zero score.
func NewController(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LevelDuration == nil {
		opts.LevelDuration = func(int) time.Duration { return DefaultLevelDuration }
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.HitTolerance <= 0 {
		opts.HitTolerance = DefaultHitTolerance
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}

	return &Controller{
		provider:      opts.Provider,
		timer:         opts.Timer,
		sink:          opts.Sink,
		exec:          opts.Executor,
		logger:        opts.Logger,
		rng:           opts.Rand,
		now:           opts.Now,
		levelDuration: opts.LevelDuration,
		tickInterval:  opts.TickInterval,
		tolerance:     opts.HitTolerance,
		player:        opts.Player,
		sessionID:     opts.SessionID,
		state:         StateIdle,
		level:         1,
	}
}

// Subscribe registers an observer and returns a function removing it.
// Observers are called in subscription order.
func (c *Controller) Subscribe(o Observer) (unsubscribe func()) {
	c.nextObserver++
	id := c.nextObserver
	c.observers = append(c.observers, observerEntry{id: id, obs: o})

	return func() {
		c.observers = slices.DeleteFunc(c.observers, func(e observerEntry) bool {
			return e.id == id
		})
	}
}

func (c *Controller) publish(e Event) {
	for _, entry := range slices.Clone(c.observers) {
		entry.obs.OnEvent(e)
	}
}

// Start begins the session on a width x height board. When prev is not nil
// the session continues after that record: at the next level, with its
// total score.
func (c *Controller) Start(width, height int, prev *LevelStats) error {
	if c.state != StateIdle {
		return ErrAlreadyStarted
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBounds, width, height)
	}

	level, total := c.level, c.totalScore
	if prev != nil {
		c.level = core.Max(prev.Level+1, 1)
		c.totalScore = prev.TotalScore
	}

	if err := c.beginLevel(width, height); err != nil {
		c.level, c.totalScore = level, total
		return err
	}
	return nil
}

// Restart replays the current level after a loss. Level and total score
// are kept; only the lost level score was taken off on expiry.
func (c *Controller) Restart(width, height int) error {
	if c.state != StateLevelFailed {
		return fmt.Errorf("%w: restart from %s", ErrInvalidTransition, c.state)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBounds, width, height)
	}

	c.cancelTimer()
	return c.beginLevel(width, height)
}

// Stop cancels the countdown. The controller keeps its state but receives
// no further timer callbacks.
func (c *Controller) Stop() {
	c.cancelTimer()
}

// beginLevel lays out the current level and starts its countdown.
func (c *Controller) beginLevel(width, height int) error {
	layout := c.provider.Generate(c.level, width, height)
	if len(layout) == 0 {
		return fmt.Errorf("%w: level %d", ErrEmptyLayout, c.level)
	}

	c.width, c.height = width, height
	c.screen = layout
	c.levelScore = 0
	c.levelStart = c.now()
	c.state = StateLevelActive
	c.pickTarget()

	c.logger.Debug("level started", "level", c.level, "shapes", len(c.screen), "total", c.totalScore)

	c.publish(LevelChanged{Level: c.level, Text: FormatLevel(c.level)})
	c.publish(ShapesChanged{Shapes: c.Shapes()})
	c.publishTarget()
	c.publishScore()
	c.startTimer()
	return nil
}

// pickTarget docks a copy of a random remaining screen shape.
func (c *Controller) pickTarget() {
	src := c.screen[c.rng.Intn(len(c.screen))]
	t := src.WithTopLeft(shapes.Dock(c.width, c.height, src.Size))
	c.target = &t
}

// HandleDrop resolves a drop at (x, y), the position of the dragged shape's
// centre. It reports whether a matching screen shape was hit. On a miss the
// target stays where it was dropped.
func (c *Controller) HandleDrop(x, y int) (bool, error) {
	if c.state != StateLevelActive || c.target == nil {
		return false, ErrNotActive
	}

	drop := core.Pt(x, y)
	for i, s := range c.screen {
		if !s.Matches(*c.target) || !c.withinTolerance(s, drop) {
			continue
		}
		c.screen = slices.Delete(slices.Clone(c.screen), i, i+1)
		c.onHit()
		return true, nil
	}

	c.moveTarget(drop)
	return false, nil
}

// DragTo moves the target so its centre follows the pointer at (x, y).
func (c *Controller) DragTo(x, y int) error {
	if c.state != StateLevelActive || c.target == nil {
		return ErrNotActive
	}
	c.moveTarget(core.Pt(x, y))
	return nil
}

func (c *Controller) moveTarget(center core.Point) {
	half := c.target.Size / 2
	t := c.target.WithTopLeft(center.Sub(core.Pt(half, half)))
	c.target = &t
	c.publishTarget()
}

func (c *Controller) withinTolerance(s shapes.Shape, p core.Point) bool {
	tol := int(float64(s.Size) * c.tolerance)
	center := s.Center()
	return core.Abs(p.X-center.X) <= tol && core.Abs(p.Y-center.Y) <= tol
}

func (c *Controller) onHit() {
	c.levelScore++
	c.totalScore++

	c.publish(ShapesChanged{Shapes: c.Shapes()})
	c.publishScore()

	if len(c.screen) == 0 {
		c.clearLevel()
		return
	}

	c.pickTarget()
	c.publishTarget()
}

// clearLevel banks the level, reports it and moves straight on to the next.
func (c *Controller) clearLevel() {
	c.cancelTimer()
	c.state = StateLevelCleared
	c.target = nil

	now := c.now()
	stats := LevelStats{
		ID:         uuid.NewString(),
		SessionID:  c.sessionID,
		Player:     c.player,
		Timestamp:  now,
		Duration:   now.Sub(c.levelStart),
		TotalScore: c.totalScore,
		LevelScore: c.levelScore,
		Level:      c.level,
	}
	c.persist(stats)

	c.logger.Info("level cleared", "level", stats.Level, "total", stats.TotalScore, "duration", stats.Duration)
	c.publishTarget()
	c.publish(LevelWon{Stats: stats})

	c.level++
	if err := c.beginLevel(c.width, c.height); err != nil {
		// The next level stays pending; Restart retries the layout.
		c.logger.Error("cannot start next level", "level", c.level, "error", err)
		c.state = StateLevelFailed
		c.publish(LevelChanged{Level: c.level, Text: FormatLevel(c.level)})
		c.publish(LevelLost{Level: c.level})
	}
}

func (c *Controller) persist(stats LevelStats) {
	if c.sink == nil || c.exec == nil {
		return
	}

	sink := c.sink
	accepted := c.exec.Submit(func(ctx context.Context) error {
		if err := sink.SaveLevelStats(ctx, stats); err != nil {
			return fmt.Errorf("persist level %d stats: %w", stats.Level, err)
		}
		return nil
	})
	if !accepted {
		c.logger.Warn("level stats dropped", "level", stats.Level, "id", stats.ID)
	}
}

func (c *Controller) startTimer() {
	c.timerRun++
	run := c.timerRun
	total := c.levelDuration(c.level)
	c.remaining = total

	c.timer.Start(total, c.tickInterval,
		func(remaining time.Duration) { c.onTick(run, remaining) },
		func() { c.onExpire(run) },
	)
}

func (c *Controller) cancelTimer() {
	c.timerRun++
	c.timer.Cancel()
}

func (c *Controller) live(run uint64) bool {
	return run == c.timerRun && c.state == StateLevelActive
}

func (c *Controller) onTick(run uint64, remaining time.Duration) {
	if !c.live(run) {
		return
	}
	c.remaining = remaining
	c.publish(TimeChanged{Remaining: remaining, Text: FormatTime(remaining)})
}

// onExpire fails the level: the unbanked level score is taken back and the
// board is cleared until Restart.
func (c *Controller) onExpire(run uint64) {
	if !c.live(run) {
		return
	}

	penalty := c.levelScore
	c.remaining = 0
	c.totalScore -= penalty
	c.levelScore = 0
	c.screen = nil
	c.target = nil
	c.state = StateLevelFailed

	c.logger.Info("level failed", "level", c.level, "penalty", penalty, "total", c.totalScore)

	c.publish(TimeChanged{Remaining: 0, Text: FormatTime(0)})
	c.publish(ShapesChanged{Shapes: nil})
	c.publishTarget()
	c.publishScore()
	c.publish(LevelLost{Level: c.level, Penalty: penalty})
}

func (c *Controller) publishTarget() {
	var t *shapes.Shape
	if c.target != nil {
		cp := *c.target
		t = &cp
	}
	c.publish(TargetChanged{Target: t})
}

func (c *Controller) publishScore() {
	c.publish(ScoreChanged{Total: c.totalScore, Level: c.levelScore, Text: c.ScoreText()})
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Level returns the current level number.
func (c *Controller) Level() int { return c.level }

// TotalScore returns the score accumulated across levels.
func (c *Controller) TotalScore() int { return c.totalScore }

// LevelScore returns the score earned in the current level.
func (c *Controller) LevelScore() int { return c.levelScore }

// Remaining returns the countdown value of the last tick.
func (c *Controller) Remaining() time.Duration { return c.remaining }

// Bounds returns the board size passed to Start or Restart.
func (c *Controller) Bounds() (width, height int) { return c.width, c.height }

// SessionID returns the identifier stamped on persisted stats.
func (c *Controller) SessionID() string { return c.sessionID }

// Shapes returns a copy of the current screen shapes.
func (c *Controller) Shapes() []shapes.Shape {
	if len(c.screen) == 0 {
		return nil
	}
	return slices.Clone(c.screen)
}

// Target returns the shape to match, if a level is active.
func (c *Controller) Target() (shapes.Shape, bool) {
	if c.target == nil {
		return shapes.Shape{}, false
	}
	return *c.target, true
}

// ScoreText returns the formatted total score.
func (c *Controller) ScoreText() string { return FormatScore(c.totalScore) }

// TimeText returns the formatted remaining time.
func (c *Controller) TimeText() string { return FormatTime(c.remaining) }

// LevelText returns the formatted level number.
func (c *Controller) LevelText() string { return FormatLevel(c.level) }
