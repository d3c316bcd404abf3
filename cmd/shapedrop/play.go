package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/shape-drop/internal/platform/tui"
	"github.com/vovakirdan/shape-drop/internal/registry"
)

var (
	flagLayout     string
	flagDifficulty string
	flagContinue   bool
	flagPlayer     string
	flagTheme      string
	flagLogFile    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a session",
	Long: `Start a play session. The board fills the terminal.

Controls:
  Mouse drag       - Drag the shape to match onto its twin
  Space/Enter      - Pick the shape up / drop it at the cursor
  Arrows/hjkl/wasd - Move the cursor (carries a held shape)
  R                - Retry the level (after time runs out)
  ?                - Toggle help
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - 30s at level 1 down to 22s at level 10, generous drops
  normal - 17.6s at level 1 down to 12s at level 10
  hard   - 9.4s at level 1 down to 8s at level 10, precise drops
  fixed  - No progression, every level uses the configured duration

Examples:
  shapedrop play
  shapedrop play --layout grid
  shapedrop play --difficulty hard
  shapedrop play --continue --player ann
  shapedrop play --config ./my-shapedrop.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLayout, "layout", "", "Board layout (default from config)")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagContinue, "continue", false, "Resume after the player's last cleared level")
	playCmd.Flags().StringVar(&flagPlayer, "player", defaultPlayer(), "Player name stored with level stats")
	playCmd.Flags().StringVar(&flagTheme, "theme", "default", "Colour theme: default, mono")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the board owns the terminal)")
}

// playLogger logs to --log-file, or nowhere.
func playLogger() (*log.Logger, func(), error) {
	if flagLogFile == "" {
		logger, err := newLogger(io.Discard, "shapedrop")
		return logger, func() {}, err
	}

	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger, err := newLogger(f, "shapedrop")
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}

// playOptions builds the options shared by play and menu.
func playOptions(layout string, logger *log.Logger, b backends) (tui.PlayOptions, error) {
	cfg, err := loadGameConfig(flagDifficulty)
	if err != nil {
		return tui.PlayOptions{}, err
	}
	if layout == "" {
		layout = cfg.Board.Layout
	}
	if !registry.Exists(layout) {
		return tui.PlayOptions{}, fmt.Errorf("unknown layout %q, run 'shapedrop layouts' to see them", layout)
	}

	theme, err := tui.ThemeByName(flagTheme)
	if err != nil {
		return tui.PlayOptions{}, err
	}

	opts := tui.PlayOptions{
		Config:   cfg,
		Layout:   layout,
		Theme:    &theme,
		Player:   flagPlayer,
		Continue: flagContinue,
		Seed:     flagSeed,
		Logger:   logger,
	}
	if b.store != nil {
		opts.Store = b.store
		opts.Executor = b.pool
	}
	return opts, nil
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := playLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	b := openBackends(logger)
	defer b.close(logger)

	opts, err := playOptions(flagLayout, logger, b)
	if err != nil {
		return err
	}

	if err := tui.Run(opts); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
