package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/shape-drop/internal/core"
	"github.com/vovakirdan/shape-drop/internal/shapes"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}

// Board glyphs.
const (
	dockRune   = '┈'
	cursorRune = '✛'
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color

			var run strings.Builder
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}

			style, ok := colorStyles[color]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// boardView is everything drawBoard needs from the session.
type boardView struct {
	Shapes     []shapes.Shape
	Target     *shapes.Shape
	Holding    bool
	Cursor     core.Point
	ShowCursor bool
}

// drawBoard paints the screen shapes, the dock and the shape to match.
func drawBoard(s *core.Screen, v boardView) {
	s.Clear()

	if v.Target != nil {
		dockY := shapes.Dock(s.Width(), s.Height(), v.Target.Size).Y
		s.DrawHLine(0, dockY-1, s.Width(), dockRune, core.ColorGray)
	}

	for _, sh := range v.Shapes {
		drawShape(s, sh, false)
	}

	if v.Target != nil {
		drawShape(s, *v.Target, true)
	}

	if v.ShowCursor && !v.Holding {
		s.SetColored(v.Cursor.X, v.Cursor.Y, cursorRune, core.ColorBrightWhite)
	}
}

// drawShape fills the shape's cells with its glyph. The shape to match is
// framed so it stands out from its twin on the board.
func drawShape(s *core.Screen, sh shapes.Shape, target bool) {
	bounds := sh.Bounds()
	glyph := sh.Type.Glyph()

	if !target || bounds.W < 3 || bounds.H < 3 {
		s.DrawRect(bounds, glyph, sh.Color)
		return
	}

	s.DrawBox(bounds, core.ColorBrightWhite)
	s.DrawRect(bounds.Inset(1), glyph, sh.Color)
}
