package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/shape-drop/internal/platform/tui"
	"github.com/vovakirdan/shape-drop/internal/storage"
)

var (
	flagScoresPlayer string
	flagScoresLimit  int
	flagInteractive  bool
	flagClear        bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show cleared levels and best totals",
	Long: `Display recently cleared levels, the best total of every player and a
summary.

Examples:
  shapedrop scores
  shapedrop scores --player ann --limit 20
  shapedrop scores --interactive
  shapedrop scores --player ann --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Only show this player (default: everyone)")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Rows per list")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the scoreboard table")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the stored stats of --player (everyone when empty)")
}

func runScores(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if flagClear {
		if err := store.ClearStats(ctx, flagScoresPlayer); err != nil {
			return err
		}
		fmt.Println("Stats cleared.")
		return nil
	}

	if flagInteractive {
		width, height := terminalSize()
		_, err := tui.RunScoreboard(store, flagScoresPlayer, width, height)
		return err
	}

	recent, err := store.RecentLevelStats(ctx, flagScoresPlayer, flagScoresLimit)
	if err != nil {
		return err
	}

	title := "everyone"
	if flagScoresPlayer != "" {
		title = flagScoresPlayer
	}
	fmt.Printf("Recent levels - %s\n", title)
	fmt.Println()

	if len(recent) == 0 {
		fmt.Println("No levels cleared yet.")
		fmt.Println()
		fmt.Println("Play 'shapedrop play' to get on the board!")
		return nil
	}

	fmt.Printf("  %-5s  %-6s  %-6s  %-7s  %-10s  %s\n", "Level", "Gained", "Total", "Time", "Player", "Date")
	fmt.Printf("  %-5s  %-6s  %-6s  %-7s  %-10s  %s\n", "-----", "------", "-----", "----", "------", "----")
	for _, st := range recent {
		fmt.Printf("  %-5d  %-6s  %-6d  %-7s  %-10s  %s\n",
			st.Level,
			fmt.Sprintf("+%d", st.LevelScore),
			st.TotalScore,
			fmt.Sprintf("%.1fs", st.Duration.Seconds()),
			st.Player,
			st.Timestamp.Format("2006-01-02 15:04"),
		)
	}

	top, err := store.TopTotals(ctx, flagScoresLimit)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Best totals")
	fmt.Println()
	fmt.Printf("  %-4s  %-10s  %-6s  %s\n", "Rank", "Player", "Total", "Level")
	fmt.Printf("  %-4s  %-10s  %-6s  %s\n", "----", "------", "-----", "-----")
	for i, b := range top {
		fmt.Printf("  %-4d  %-10s  %-6d  %d\n", i+1, b.Player, b.BestTotal, b.BestLevel)
	}

	summary, err := store.Summary(ctx, flagScoresPlayer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: no summary: %v\n", err)
		return nil
	}
	fmt.Println()
	fmt.Printf("Levels cleared: %d in %d sessions, average %.1fs\n",
		summary.LevelsCleared, summary.Sessions, summary.AvgDuration.Seconds())
	fmt.Printf("Best: total %d, level %d\n", summary.BestTotal, summary.BestLevel)
	return nil
}
