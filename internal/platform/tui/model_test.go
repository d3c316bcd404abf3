package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/shape-drop/internal/config"
	"github.com/vovakirdan/shape-drop/internal/core"
	_ "github.com/vovakirdan/shape-drop/internal/layouts/grid"
	_ "github.com/vovakirdan/shape-drop/internal/layouts/scatter"
	"github.com/vovakirdan/shape-drop/internal/session"
)

type memoryStore struct {
	latest *session.LevelStats
	saved  []session.LevelStats
}

func (s *memoryStore) SaveLevelStats(_ context.Context, st session.LevelStats) error {
	s.saved = append(s.saved, st)
	return nil
}

func (s *memoryStore) LatestLevelStats(context.Context, string) (*session.LevelStats, error) {
	return s.latest, nil
}

type inlineExecutor struct{}

func (inlineExecutor) Submit(task func(ctx context.Context) error) bool {
	return task(context.Background()) == nil
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func newTestPlay(t *testing.T, opts PlayOptions) PlayModel {
	t.Helper()
	if opts.Config == (config.GameConfig{}) {
		opts.Config = config.DefaultGameConfig()
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}

	m, err := NewPlayModel(opts)
	if err != nil {
		t.Fatalf("NewPlayModel() failed: %v", err)
	}
	t.Cleanup(m.Close)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(PlayModel)
}

func update(t *testing.T, m PlayModel, msgs ...tea.Msg) PlayModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(PlayModel)
	}
	return m
}

// steer moves the held target with arrow keys until the cursor is at p.
func steer(t *testing.T, m PlayModel, p core.Point) PlayModel {
	t.Helper()
	for m.Cursor().X < p.X {
		m = update(t, m, keyPress("right"))
	}
	for m.Cursor().X > p.X {
		m = update(t, m, keyPress("left"))
	}
	for m.Cursor().Y < p.Y {
		m = update(t, m, keyPress("down"))
	}
	for m.Cursor().Y > p.Y {
		m = update(t, m, keyPress("up"))
	}
	return m
}

func TestPlayStartsOnFirstResize(t *testing.T) {
	m, err := NewPlayModel(PlayOptions{Config: config.DefaultGameConfig(), Seed: 7})
	if err != nil {
		t.Fatalf("NewPlayModel() failed: %v", err)
	}
	t.Cleanup(m.Close)

	if m.Controller().State() != session.StateIdle {
		t.Fatal("session started before the board size was known")
	}
	if !strings.Contains(m.View(), "Loading") {
		t.Error("expected loading view before the first resize")
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	ctrl := m.Controller()
	if ctrl.State() != session.StateLevelActive {
		t.Fatalf("State() = %s after resize", ctrl.State())
	}
	if w, h := ctrl.Bounds(); w != 80 || h != 24-headerLines-footerLines {
		t.Errorf("board = %dx%d", w, h)
	}
	if len(ctrl.Shapes()) != 1 {
		t.Errorf("level 1 shows %d shapes", len(ctrl.Shapes()))
	}

	view := m.View()
	for _, want := range []string{"Level 1", "Score: 0", "Time: 20"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	// Later resizes keep the running level.
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if w, _ := m.Controller().Bounds(); w != 80 {
		t.Errorf("resize restarted the level on a %d wide board", w)
	}
}

func TestPlayUnknownLayout(t *testing.T) {
	_, err := NewPlayModel(PlayOptions{Config: config.DefaultGameConfig(), Layout: "spiral"})
	if err == nil || !strings.Contains(err.Error(), "spiral") {
		t.Errorf("NewPlayModel(spiral) error = %v", err)
	}
}

func TestPlayKeyboardDragAndDrop(t *testing.T) {
	store := &memoryStore{}
	m := newTestPlay(t, PlayOptions{Store: store, Executor: inlineExecutor{}, Player: "ann"})
	ctrl := m.Controller()

	m = update(t, m, keyPress("space"))
	if !m.Holding() {
		t.Fatal("space should pick the target up")
	}
	target, _ := ctrl.Target()
	if m.Cursor() != target.Center() {
		t.Errorf("cursor %+v not on target centre %+v", m.Cursor(), target.Center())
	}

	goal := ctrl.Shapes()[0].Center()
	m = steer(t, m, goal)
	if moved, _ := ctrl.Target(); moved.Center() != goal {
		t.Errorf("held target at %+v, expected centre %+v", moved.Center(), goal)
	}

	m = update(t, m, keyPress("space"))
	if m.Holding() {
		t.Error("second space should drop the target")
	}
	if ctrl.Level() != 2 || ctrl.TotalScore() != 1 {
		t.Errorf("after drop: level=%d total=%d", ctrl.Level(), ctrl.TotalScore())
	}
	if len(store.saved) != 1 || store.saved[0].Player != "ann" || store.saved[0].Level != 1 {
		t.Errorf("saved stats = %+v", store.saved)
	}
	if !strings.Contains(m.View(), "Level 1 cleared") {
		t.Error("win banner not shown")
	}
}

func TestPlayKeyboardMiss(t *testing.T) {
	m := newTestPlay(t, PlayOptions{})
	ctrl := m.Controller()

	m = update(t, m, keyPress("space"), keyPress("left"), keyPress("left"), keyPress("space"))

	if ctrl.Level() != 1 || len(ctrl.Shapes()) != 1 {
		t.Errorf("miss changed the level: level=%d shapes=%d", ctrl.Level(), len(ctrl.Shapes()))
	}
	target, _ := ctrl.Target()
	if target.Center() != m.Cursor() {
		t.Errorf("missed target should stay at the drop point %+v, got %+v", m.Cursor(), target.Center())
	}
}

func TestPlayMouseDrag(t *testing.T) {
	m := newTestPlay(t, PlayOptions{})
	ctrl := m.Controller()

	target, _ := ctrl.Target()
	grab := target.Center()
	goal := ctrl.Shapes()[0].Center()

	mouse := func(action tea.MouseAction, p core.Point) tea.MouseMsg {
		return tea.MouseMsg{X: p.X, Y: p.Y + headerLines, Action: action, Button: tea.MouseButtonLeft}
	}

	// A press outside the target does not pick it up.
	m = update(t, m, mouse(tea.MouseActionPress, core.Pt(0, 0)))
	if m.Holding() {
		t.Fatal("press away from the target started a drag")
	}
	m = update(t, m, mouse(tea.MouseActionRelease, core.Pt(0, 0)))

	m = update(t, m,
		mouse(tea.MouseActionPress, grab),
		mouse(tea.MouseActionMotion, core.Pt(goal.X, grab.Y)),
	)
	if !m.Holding() {
		t.Fatal("press on the target should start a drag")
	}
	if moved, _ := ctrl.Target(); moved.Center() != core.Pt(goal.X, grab.Y) {
		t.Errorf("target did not follow the pointer: %+v", moved.Center())
	}

	m = update(t, m, mouse(tea.MouseActionRelease, goal))
	if m.Holding() || ctrl.Level() != 2 {
		t.Errorf("release on the match: holding=%v level=%d", m.Holding(), ctrl.Level())
	}
}

func TestPlayExpiryAndRestart(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.Timer.LevelDurationMS = 1
	cfg.Timer.TickIntervalMS = 1
	m := newTestPlay(t, PlayOptions{Config: cfg})
	ctrl := m.Controller()

	// Restart is only bound once the level is lost.
	m = update(t, m, keyPress("r"))
	if ctrl.State() != session.StateLevelActive {
		t.Fatal("r restarted an active level")
	}

	deadline := time.After(5 * time.Second)
	for ctrl.State() == session.StateLevelActive {
		select {
		case <-deadline:
			t.Fatal("countdown never expired")
		default:
		}
		msg := m.bridge.wait()()
		if msg == nil {
			t.Fatal("timer bridge closed")
		}
		m = update(t, m, msg)
	}

	if ctrl.State() != session.StateLevelFailed {
		t.Fatalf("State() = %s, expected failed", ctrl.State())
	}
	if !strings.Contains(m.View(), "Press r to retry") {
		t.Error("failure prompt not shown")
	}

	m = update(t, m, keyPress("r"))
	if ctrl.State() != session.StateLevelActive || ctrl.Level() != 1 {
		t.Errorf("after r: state=%s level=%d", ctrl.State(), ctrl.Level())
	}
}

func TestPlayIgnoresForeignTimerMessages(t *testing.T) {
	m := newTestPlay(t, PlayOptions{})

	called := false
	other := newTimerBridge()
	next, cmd := m.Update(timerMsg{from: other, fn: func() { called = true }})
	if called || cmd != nil {
		t.Error("callback from another bridge was run")
	}

	next, cmd = next.(PlayModel).Update(timerMsg{from: m.bridge, fn: func() { called = true }})
	if !called || cmd == nil {
		t.Error("own callback should run and wait for the next one")
	}
	_ = next
}

func TestPlayContinueFromStore(t *testing.T) {
	store := &memoryStore{latest: &session.LevelStats{Level: 2, TotalScore: 5}}
	m := newTestPlay(t, PlayOptions{Store: store, Executor: inlineExecutor{}, Continue: true})

	ctrl := m.Controller()
	if ctrl.Level() != 3 || ctrl.TotalScore() != 5 {
		t.Errorf("continued at level=%d total=%d, expected 3/5", ctrl.Level(), ctrl.TotalScore())
	}
	if len(ctrl.Shapes()) != 3 {
		t.Errorf("level 3 shows %d shapes", len(ctrl.Shapes()))
	}
}

func TestPlayQuitAndBack(t *testing.T) {
	m := newTestPlay(t, PlayOptions{})
	next, cmd := m.Update(keyPress("q"))
	if !next.(PlayModel).IsQuitting() {
		t.Error("q should quit")
	}
	if cmd == nil || cmd() != tea.Quit() {
		t.Error("q should return tea.Quit")
	}
	if next.(PlayModel).View() != "" {
		t.Error("quitting view should be empty")
	}

	embedded := newTestPlay(t, PlayOptions{Embedded: true})
	next, cmd = embedded.Update(keyPress("esc"))
	if !next.(PlayModel).BackToMenu() || cmd != nil {
		t.Error("esc in an embedded session should go back to the menu")
	}
}

func TestHUDBannerExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := &hudState{now: func() time.Time { return now }}

	h.OnEvent(session.LevelWon{Stats: session.LevelStats{Level: 4, LevelScore: 4}})
	h.OnEvent(session.LevelChanged{Level: 5})
	if banner, won := h.current(); banner != "Level 4 cleared! +4" || !won {
		t.Errorf("current() = %q, %v", banner, won)
	}

	now = now.Add(bannerDuration)
	if banner, _ := h.current(); banner != "" {
		t.Errorf("win banner should expire, got %q", banner)
	}

	h.OnEvent(session.LevelLost{Level: 5, Penalty: 2})
	now = now.Add(time.Hour)
	if banner, won := h.current(); banner != "Time's up! -2" || won {
		t.Errorf("loss banner = %q, %v", banner, won)
	}
	h.OnEvent(session.LevelChanged{Level: 5})
	if banner, _ := h.current(); banner != "" {
		t.Error("restart should clear the loss banner")
	}
}
