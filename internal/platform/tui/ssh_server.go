package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/shape-drop/internal/config"
	"github.com/vovakirdan/shape-drop/internal/storage"
	"github.com/vovakirdan/shape-drop/internal/worker"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.shapedrop/host_key.
	HostKeyPath string

	// DBPath is the path to the stats database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game is the configuration every session plays with.
	Game config.GameConfig

	// Workers persisting level stats for all sessions.
	Workers int

	// Logger defaults to a timestamped stderr logger.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.shapedrop/stats.db",
		IdleTimeout: 30 * time.Minute,
		Game:        config.DefaultGameConfig(),
		Workers:     4,
	}
}

// SSHServer wraps a Wish SSH server; every connection plays its own session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	pool   *worker.Pool
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "shapedrop-ssh",
		})
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open stats database", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		pool:   worker.New(worker.Options{Workers: cfg.Workers, Logger: logger.WithPrefix("stats")}),
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			srv.closeBackends()
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".shapedrop", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		srv.closeBackends()
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		srv.closeBackends()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model := NewSessionModel(SessionOptions{
		Game:     s.config.Game,
		Store:    s.store,
		Executor: s.pool,
		Player:   sshSession.User(),
		Logger:   s.logger.With("user", sshSession.User()),
		Width:    pty.Window.Width,
		Height:   pty.Window.Height,
	})

	// The program ends with the connection; release its countdown then.
	go func() {
		<-sshSession.Context().Done()
		model.Close()
	}()

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server, then drains pending stats writes.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if poolErr := s.pool.Close(ctx); poolErr != nil {
		s.logger.Warn("stats writes not drained", "error", poolErr)
	}
	if s.store != nil {
		s.store.Close()
	}
	return err
}

func (s *SSHServer) closeBackends() {
	//nolint:errcheck // Nothing was submitted yet
	s.pool.Close(context.Background())
	if s.store != nil {
		s.store.Close()
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Game     config.GameConfig
	Theme    *Theme         // Defaults to DefaultTheme
	Store    *storage.Store // Optional
	Executor *worker.Pool
	Player   string
	Logger   *log.Logger
	Width    int
	Height   int
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenPlay
	screenScores
)

// playTracker remembers every play model of a session so the countdown
// goroutines can be released when the connection drops.
type playTracker struct {
	mu    sync.Mutex
	plays []PlayModel
}

func (t *playTracker) add(p PlayModel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.plays = append(t.plays, p)
}

func (t *playTracker) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.plays {
		p.Close()
	}
}

// SessionModel manages the full flow of a connection:
// menu -> play -> menu, with the scoreboard one key away.
type SessionModel struct {
	opts    SessionOptions
	theme   Theme
	screen  sessionScreen
	menu    MenuModel
	play    PlayModel
	scores  ScoreboardModel
	tracker *playTracker
	width   int
	height  int
	quit    bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions) SessionModel {
	theme := DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return SessionModel{
		opts:    opts,
		theme:   theme,
		menu:    NewMenuModel(theme, opts.Game.Board.Layout, opts.Width, opts.Height),
		tracker: &playTracker{},
		width:   opts.Width,
		height:  opts.Height,
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenPlay:
		return m.updatePlay(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quit = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scores = NewScoreboardModel(m.scoreSource(), "", m.width, m.height)
		m.screen = screenScores
		return m, m.scores.Init()

	case m.menu.Selected() != nil:
		return m.startPlay(m.menu.Selected().Name)
	}

	return m, cmd
}

// startPlay swaps the menu for a fresh play session on layout.
func (m SessionModel) startPlay(layout string) (tea.Model, tea.Cmd) {
	theme := m.theme
	opts := PlayOptions{
		Config:   m.opts.Game,
		Layout:   layout,
		Theme:    &theme,
		Player:   m.opts.Player,
		Continue: true,
		Logger:   m.opts.Logger,
		Embedded: true,
	}
	if m.opts.Store != nil && m.opts.Executor != nil {
		opts.Store = m.opts.Store
		opts.Executor = m.opts.Executor
	}

	play, err := NewPlayModel(opts)
	if err != nil {
		m.opts.Logger.Error("cannot start play session", "layout", layout, "error", err)
		m.menu = NewMenuModel(m.theme, layout, m.width, m.height)
		return m, nil
	}
	m.tracker.add(play)

	// The menu consumed the window size; replay it to start the level.
	sized, _ := play.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.play = sized.(PlayModel)
	m.screen = screenPlay
	return m, m.play.Init()
}

// updatePlay handles updates when a level is being played.
func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newPlay, cmd := m.play.Update(msg)
	if playModel, ok := newPlay.(PlayModel); ok {
		m.play = playModel
	}

	if m.play.IsQuitting() {
		m.quit = true
		return m, tea.Quit
	}

	if m.play.BackToMenu() {
		m.menu = NewMenuModel(m.theme, m.menu.selectedName(), m.width, m.height)
		m.screen = screenMenu
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateScores handles updates on the scoreboard.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newScores, cmd := m.scores.Update(msg)
	if scoresModel, ok := newScores.(ScoreboardModel); ok {
		m.scores = scoresModel
	}

	if m.scores.IsQuitting() {
		m.quit = true
		return m, tea.Quit
	}

	if m.scores.IsGoingBack() {
		m.menu = NewMenuModel(m.theme, m.menu.selectedName(), m.width, m.height)
		m.screen = screenMenu
		return m, m.menu.Init()
	}

	return m, cmd
}

func (m SessionModel) scoreSource() ScoreSource {
	if m.opts.Store == nil {
		return nil
	}
	return m.opts.Store
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quit {
		return ""
	}

	switch m.screen {
	case screenPlay:
		return m.play.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// Close releases every countdown goroutine of the session.
func (m SessionModel) Close() {
	m.tracker.closeAll()
}
