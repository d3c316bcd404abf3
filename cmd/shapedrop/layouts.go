package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/shape-drop/internal/registry"
)

var layoutsCmd = &cobra.Command{
	Use:     "layouts",
	Aliases: []string{"list"},
	Short:   "List all board layouts",
	Long:    `Shows every registered layout that places shapes on the board.`,
	Run:     runLayouts,
}

func runLayouts(_ *cobra.Command, _ []string) {
	layouts := registry.List()

	if len(layouts) == 0 {
		fmt.Println("No layouts available.")
		return
	}

	fmt.Println("Available layouts:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, l := range layouts {
		if len(l.Name) > maxNameLen {
			maxNameLen = len(l.Name)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")

	for _, l := range layouts {
		fmt.Printf("  %-*s  %s\n", maxNameLen, l.Name, l.Description)
	}

	fmt.Println()
	fmt.Println("Run 'shapedrop play --layout <name>' to play on a layout.")
}
