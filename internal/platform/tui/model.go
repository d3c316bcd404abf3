package tui

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/shape-drop/internal/clock"
	"github.com/vovakirdan/shape-drop/internal/config"
	"github.com/vovakirdan/shape-drop/internal/core"
	"github.com/vovakirdan/shape-drop/internal/registry"
	"github.com/vovakirdan/shape-drop/internal/session"
	"github.com/vovakirdan/shape-drop/internal/shapes"
)

// Play screen layout: one HUD row above the board, one help row below.
const (
	headerLines    = 1
	footerLines    = 1
	bannerDuration = 2 * time.Second
	lowTime        = 5 * time.Second
)

// StatsStore persists level stats and finds where a player left off.
// *storage.Store implements it.
type StatsStore interface {
	session.StatsSink
	LatestLevelStats(ctx context.Context, player string) (*session.LevelStats, error)
}

// PlayOptions configures a play screen.
type PlayOptions struct {
	Config   config.GameConfig
	Layout   string           // Defaults to Config.Board.Layout
	Theme    *Theme           // Defaults to DefaultTheme
	Store    StatsStore       // Optional
	Executor session.Executor // Required when Store is set
	Player   string
	Continue bool // Resume after the player's latest stored level
	Seed     int64
	Logger   *log.Logger

	// Embedded makes Back hand control to the caller instead of quitting.
	Embedded bool
}

// hudState collects what the controller reports that the board cannot
// show by itself. The observer writes it on the Bubble Tea goroutine.
type hudState struct {
	now         func() time.Time
	banner      string
	won         bool
	bannerUntil time.Time
}

func (h *hudState) OnEvent(e session.Event) {
	switch ev := e.(type) {
	case session.LevelWon:
		h.banner = fmt.Sprintf("Level %d cleared! +%d", ev.Stats.Level, ev.Stats.LevelScore)
		h.won = true
		h.bannerUntil = h.now().Add(bannerDuration)
	case session.LevelLost:
		h.banner = fmt.Sprintf("Time's up! -%d", ev.Penalty)
		h.won = false
		h.bannerUntil = time.Time{}
	case session.LevelChanged:
		if !h.won {
			h.banner = ""
		}
	}
}

// current returns the banner to show, if any.
func (h *hudState) current() (string, bool) {
	if h.banner == "" {
		return "", false
	}
	if h.won && !h.now().Before(h.bannerUntil) {
		h.banner, h.won = "", false
		return "", false
	}
	return h.banner, h.won
}

// PlayModel is the Bubble Tea model of a play session.
type PlayModel struct {
	ctrl      *session.Controller
	ticker    *clock.Ticker
	bridge    *timerBridge
	closeOnce *sync.Once
	hud       *hudState
	screen    *core.Screen
	keys      PlayKeyMap
	help      help.Model
	theme     Theme
	logger    *log.Logger
	prev      *session.LevelStats
	player    string
	embedded  bool

	width      int
	height     int
	cursor     core.Point
	holding    bool
	mouse      bool // The held shape follows the mouse, not the cursor
	startErr   error
	quitting   bool
	backToMenu bool
}

// NewPlayModel wires a controller to a real countdown and the chosen layout.
func NewPlayModel(opts PlayOptions) (PlayModel, error) {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Layout == "" {
		opts.Layout = opts.Config.Board.Layout
	}
	theme := DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	layout, err := registry.Create(opts.Layout, opts.Config.ShapeOptions(), rng)
	if err != nil {
		return PlayModel{}, err
	}

	var prev *session.LevelStats
	if opts.Continue && opts.Store != nil {
		prev, err = opts.Store.LatestLevelStats(context.Background(), opts.Player)
		if err != nil {
			return PlayModel{}, fmt.Errorf("tui: cannot resume: %w", err)
		}
	}

	bridge := newTimerBridge()
	ticker := clock.NewTicker(bridge.post)
	hud := &hudState{now: time.Now}

	sessOpts := session.Options{
		Provider:      layout,
		Timer:         ticker,
		Executor:      opts.Executor,
		Logger:        opts.Logger,
		Rand:          rng,
		LevelDuration: config.LevelDurationFunc(opts.Config),
		TickInterval:  opts.Config.TickInterval(),
		HitTolerance:  opts.Config.Board.HitTolerance,
		Player:        opts.Player,
	}
	if opts.Store != nil {
		sessOpts.Sink = opts.Store
	}
	ctrl := session.NewController(sessOpts)
	ctrl.Subscribe(hud)

	h := help.New()
	h.ShowAll = false

	return PlayModel{
		ctrl:      ctrl,
		ticker:    ticker,
		bridge:    bridge,
		closeOnce: &sync.Once{},
		hud:       hud,
		screen:    core.NewScreen(0, 0),
		keys:      DefaultPlayKeyMap(),
		help:      h,
		theme:     theme,
		logger:    opts.Logger,
		prev:      prev,
		player:    opts.Player,
		embedded:  opts.Embedded,
	}, nil
}

// Init starts listening for countdown callbacks. The session itself starts
// on the first window size message, once the board size is known.
func (m PlayModel) Init() tea.Cmd {
	return m.bridge.wait()
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case timerMsg:
		if msg.from != m.bridge {
			// Left over from a closed play session.
			return m, nil
		}
		msg.fn()
		m.afterChange()
		return m, m.bridge.wait()
	}

	return m, nil
}

// handleResize starts the session on the first size and keeps the screen
// buffer in sync afterwards. A running level keeps its board size.
func (m PlayModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.screen.Resize(msg.Width, m.boardHeight())

	if m.ctrl.State() == session.StateIdle && m.startErr == nil {
		if err := m.ctrl.Start(msg.Width, m.boardHeight(), m.prev); err != nil {
			m.logger.Error("cannot start session", "error", err)
			m.startErr = err
			return m, nil
		}
		m.logger.Info("session started",
			"session", m.ctrl.SessionID(),
			"player", m.player,
			"level", m.ctrl.Level(),
		)
		m.cursor = core.Pt(msg.Width/2, m.boardHeight()/2)
		m.afterChange()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.shutdown()
		if m.embedded {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Restart):
		bw, bh := m.ctrl.Bounds()
		if err := m.ctrl.Restart(bw, bh); err != nil {
			m.logger.Debug("restart ignored", "error", err)
		}

	case key.Matches(msg, m.keys.Grab):
		m.grab()

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)
	}

	m.afterChange()
	return m, nil
}

// handleMouse drags the shape to match: press on it, move, release to drop.
func (m PlayModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := core.Pt(msg.X, msg.Y-headerLines)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.ctrl.State() != session.StateLevelActive {
			break
		}
		target, ok := m.ctrl.Target()
		if !ok || !target.Bounds().Contains(p.X, p.Y) {
			break
		}
		m.holding, m.mouse = true, true
		m.cursor = p
		m.dragTo(p)

	case tea.MouseActionMotion:
		if m.holding && m.mouse {
			m.cursor = p
			m.dragTo(p)
		}

	case tea.MouseActionRelease:
		if m.holding && m.mouse {
			m.holding = false
			m.cursor = p
			m.drop(p)
		}
	}

	m.afterChange()
	return m, nil
}

// grab picks the shape to match up at its centre, or drops it at the cursor.
func (m *PlayModel) grab() {
	if m.ctrl.State() != session.StateLevelActive {
		return
	}
	m.mouse = false

	if !m.holding {
		target, ok := m.ctrl.Target()
		if !ok {
			return
		}
		m.holding = true
		m.cursor = target.Center()
		return
	}

	m.holding = false
	m.drop(m.cursor)
}

func (m *PlayModel) moveCursor(dx, dy int) {
	m.mouse = false
	m.cursor = core.Pt(
		core.Clamp(m.cursor.X+dx, 0, core.Max(m.width-1, 0)),
		core.Clamp(m.cursor.Y+dy, 0, core.Max(m.boardHeight()-1, 0)),
	)
	if m.holding {
		m.dragTo(m.cursor)
	}
}

func (m *PlayModel) dragTo(p core.Point) {
	if err := m.ctrl.DragTo(p.X, p.Y); err != nil {
		m.logger.Debug("drag ignored", "error", err)
	}
}

func (m *PlayModel) drop(p core.Point) {
	hit, err := m.ctrl.HandleDrop(p.X, p.Y)
	if err != nil {
		m.logger.Debug("drop ignored", "error", err)
		return
	}
	m.logger.Debug("drop", "x", p.X, "y", p.Y, "hit", hit)
}

// afterChange releases a held shape once its level is over and toggles
// the retry key.
func (m *PlayModel) afterChange() {
	active := m.ctrl.State() == session.StateLevelActive
	if !active {
		m.holding = false
	}
	m.keys.Restart.SetEnabled(m.ctrl.State() == session.StateLevelFailed)
	m.keys.Grab.SetEnabled(active)
}

func (m PlayModel) boardHeight() int {
	return core.Max(m.height-headerLines-footerLines, 1)
}

// shutdown silences the controller and releases the countdown goroutine.
func (m PlayModel) shutdown() {
	m.ctrl.Stop()
	m.Close()
}

// Close stops the countdown goroutine and waits for it. It may be called
// more than once, from any goroutine; a level started afterwards gets no
// countdown.
func (m PlayModel) Close() {
	m.closeOnce.Do(func() {
		m.ticker.Close()
		m.bridge.close()
		m.ticker.Wait()
	})
}

// View renders the HUD, the board and the help bar.
func (m PlayModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	if m.startErr != nil {
		return fmt.Sprintf("Cannot start: %v\n\nPress q to quit.", m.startErr)
	}
	if m.width == 0 {
		return "Loading..."
	}

	var target *shapes.Shape
	if t, ok := m.ctrl.Target(); ok {
		target = &t
	}
	drawBoard(m.screen, boardView{
		Shapes:     m.ctrl.Shapes(),
		Target:     target,
		Holding:    m.holding,
		Cursor:     m.cursor,
		ShowCursor: !m.mouse && m.ctrl.State() == session.StateLevelActive,
	})
	if m.ctrl.State() == session.StateLevelFailed {
		m.screen.DrawTextCentered(m.screen.Height()/2, "Time's up! Press r to retry the level", core.ColorBrightRed)
	}

	footer := m.theme.Help.Render(m.help.View(m.keys))
	rows := strings.Split(RenderScreen(m.screen), "\n")
	if extra := lipgloss.Height(footer) - footerLines; extra > 0 && extra < len(rows) {
		rows = rows[:len(rows)-extra]
	}

	return m.renderHUD() + "\n" + strings.Join(rows, "\n") + "\n" + footer
}

// renderHUD renders the level, score and time line with the banner.
func (m PlayModel) renderHUD() string {
	sep := m.theme.HUDSeparator.Render(" │ ")

	timeStyle := m.theme.HUDValue
	if m.ctrl.State() == session.StateLevelActive && m.ctrl.Remaining() <= lowTime {
		timeStyle = m.theme.HUDLow
	}

	left := m.theme.HUDLevel.Render(m.ctrl.LevelText()) + sep +
		m.theme.HUDValue.Render(m.ctrl.ScoreText()) + sep +
		timeStyle.Render(m.ctrl.TimeText())

	if banner, won := m.hud.current(); banner != "" {
		style := m.theme.LoseBanner
		if won {
			style = m.theme.WinBanner
		}
		left += "  " + style.Render(banner)
	}

	right := ""
	if m.player != "" {
		right = m.theme.HUDPlayer.Render(m.player)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// Controller exposes the session for inspection.
func (m PlayModel) Controller() *session.Controller {
	return m.ctrl
}

// Holding reports whether the shape to match is being dragged.
func (m PlayModel) Holding() bool {
	return m.holding
}

// Cursor returns the keyboard cursor position on the board.
func (m PlayModel) Cursor() core.Point {
	return m.cursor
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m PlayModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for a local play session.
func Run(opts PlayOptions) error {
	model, err := NewPlayModel(opts)
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()
	return err
}
