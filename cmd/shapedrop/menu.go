package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/shape-drop/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a layout picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to pick a layout.
When a session ends you return to the menu to play again.
Sessions in the menu always continue after your last cleared level.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select layout
  Tab          - Scoreboard
  Q            - Quit

Examples:
  shapedrop menu
  shapedrop menu --difficulty easy
  shapedrop menu --db ./stats.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	// Shares the play flags; --continue is implied.
	menuCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	menuCmd.Flags().StringVar(&flagPlayer, "player", defaultPlayer(), "Player name stored with level stats")
	menuCmd.Flags().StringVar(&flagTheme, "theme", "default", "Colour theme: default, mono")
	menuCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := playLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	b := openBackends(logger)
	defer b.close(logger)

	theme, err := tui.ThemeByName(flagTheme)
	if err != nil {
		return err
	}

	flagContinue = true
	width, height := terminalSize()
	preferred := ""

	// Menu loop
	for {
		result, err := tui.RunMenu(theme, preferred, width, height)
		if err != nil {
			return err
		}
		if result.Width > 0 && result.Height > 0 {
			width, height = result.Width, result.Height
		}

		if result.Quit {
			return nil
		}

		if result.WantsScoreboard {
			if b.store == nil {
				fmt.Fprintln(os.Stderr, "Warning: no stats database, scoreboard unavailable")
				continue
			}
			goBack, sbErr := tui.RunScoreboard(b.store, "", width, height)
			if sbErr != nil {
				return sbErr
			}
			if goBack {
				continue
			}
			return nil
		}

		preferred = result.Layout
		opts, err := playOptions(result.Layout, logger, b)
		if err != nil {
			return err
		}
		if flagSeed == 0 {
			opts.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		// Loop back to menu
	}
}
