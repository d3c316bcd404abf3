package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme contains the visual styles of the play and menu screens.
type Theme struct {
	// HUD styles
	HUDLevel     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDLow       lipgloss.Style // Time value in the last seconds
	HUDSeparator lipgloss.Style
	HUDPlayer    lipgloss.Style

	// Overlay styles
	WinBanner  lipgloss.Style
	LoseBanner lipgloss.Style

	// Menu styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style

	Help lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		HUDLevel:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		HUDValue:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		HUDLow:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		HUDSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HUDPlayer:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),

		WinBanner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("46")).
			Bold(true).
			Padding(0, 2),
		LoseBanner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("88")).
			Bold(true).
			Padding(0, 2),

		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		Help: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// MonochromeTheme returns a grayscale theme.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	theme.HUDLevel = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.HUDLow = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true).Underline(true)
	theme.WinBanner = theme.WinBanner.Foreground(lipgloss.Color("16")).Background(lipgloss.Color("250"))
	theme.LoseBanner = theme.LoseBanner.Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238"))
	theme.MenuTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.MenuItemActive = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true).Underline(true)
	return theme
}

// ThemeByName resolves a theme name.
func ThemeByName(name string) (Theme, error) {
	switch name {
	case "", "default":
		return DefaultTheme(), nil
	case "mono", "monochrome":
		return MonochromeTheme(), nil
	default:
		return Theme{}, fmt.Errorf("tui: unknown theme %q (use default or mono)", name)
	}
}
