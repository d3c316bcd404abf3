// shapedrop is a terminal shape matching game: drag each shape onto its
// twin before the level countdown runs out.
//
// Usage:
//
//	shapedrop layouts           - List available board layouts
//	shapedrop play              - Play a session
//	shapedrop menu              - Pick a layout interactively
//	shapedrop serve             - Start SSH server for remote play
//	shapedrop scores            - Show cleared levels and best totals
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible layouts
//	--db <path>          - Set database path (default: ~/.shapedrop/stats.db)
//	--config <path>      - Load game config from a YAML file
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/shape-drop/internal/config"
	"github.com/vovakirdan/shape-drop/internal/storage"
	"github.com/vovakirdan/shape-drop/internal/worker"

	// Import layouts to register them
	_ "github.com/vovakirdan/shape-drop/internal/layouts/grid"
	_ "github.com/vovakirdan/shape-drop/internal/layouts/scatter"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shapedrop",
	Short: "Shape Drop - drag shapes onto their twins in your terminal",
	Long: `Shape Drop is a terminal matching game. Each level shows a set of
shapes and one shape to match; drag it onto its twin before the countdown
ends. Clearing every shape moves straight on to the next level.

Available commands:
  layouts  - Show all board layouts
  play     - Play a session directly
  menu     - Interactive layout picker
  serve    - Start SSH server for remote play
  scores   - View cleared levels and best totals

Examples:
  shapedrop layouts
  shapedrop play --layout grid
  shapedrop play --continue
  shapedrop menu
  shapedrop serve --ssh :2222
  shapedrop scores --player ann`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.shapedrop/stats.db", "Path to stats database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(layoutsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// newLogger builds a logger at the --log-level threshold.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// loadGameConfig loads the config file and applies a difficulty preset.
func loadGameConfig(difficulty string) (config.GameConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.GameConfig{}, err
	}
	if difficulty != "" {
		preset, err := config.ParsePreset(difficulty)
		if err != nil {
			return config.GameConfig{}, err
		}
		config.ApplyPreset(&cfg, preset)
	}
	return cfg, cfg.Validate()
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

// defaultPlayer names local sessions after the OS user.
func defaultPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return os.Getenv("USERNAME")
}

// backends holds the stats store and the pool writing to it. Either may be
// missing: the game still works without persistence.
type backends struct {
	store *storage.Store
	pool  *worker.Pool
}

func openBackends(logger *log.Logger) backends {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open stats database", "error", err)
		return backends{}
	}
	return backends{
		store: store,
		pool:  worker.New(worker.Options{Workers: 1, Logger: logger.WithPrefix("stats")}),
	}
}

// close drains pending writes before closing the database.
func (b backends) close(logger *log.Logger) {
	if b.pool != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.pool.Close(ctx); err != nil {
			logger.Warn("stats writes not drained", "error", err)
		}
	}
	if b.store != nil {
		b.store.Close()
	}
}
