package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(12, 4)

	if s.Width() != 12 || s.Height() != 4 {
		t.Fatalf("dimensions = %dx%d, expected 12x4", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Fatalf("cell (%d, %d) = %+v, expected blank", x, y, c)
			}
		}
	}
}

func TestNewScreenNegativeSize(t *testing.T) {
	s := NewScreen(-3, -1)
	if s.Width() != 0 || s.Height() != 0 {
		t.Errorf("negative size should clamp to 0x0, got %dx%d", s.Width(), s.Height())
	}
	if s.String() != "" {
		t.Errorf("empty screen should render as empty string, got %q", s.String())
	}
}

func TestScreenSetColored(t *testing.T) {
	s := NewScreen(5, 5)
	s.SetColored(2, 3, '●', ColorRed)

	cell := s.GetCell(2, 3)
	if cell.Rune != '●' || cell.Color != ColorRed {
		t.Errorf("GetCell(2, 3) = %+v, expected red ●", cell)
	}

	// Out of bounds writes are ignored
	s.SetColored(-1, 0, 'X', ColorRed)
	s.SetColored(0, 5, 'X', ColorRed)
	if s.Get(-1, 0) != ' ' || s.Get(0, 5) != ' ' {
		t.Error("out of bounds Get should return space")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(4, 4)
	s.DrawRect(NewRect(0, 0, 4, 4), '#', ColorBlue)
	s.Clear()

	if strings.TrimSpace(strings.ReplaceAll(s.String(), "\n", "")) != "" {
		t.Errorf("screen not blank after Clear: %q", s.String())
	}
	if s.GetCell(1, 1).Color != ColorDefault {
		t.Error("Clear should reset colors")
	}
}

func TestScreenDrawTextClipsAtEdge(t *testing.T) {
	s := NewScreen(8, 2)
	s.DrawTextColored(5, 0, "Score", ColorYellow)

	if got := row(s, 0); got != "     Sco" {
		t.Errorf("Row(0) = %q, expected clipped text", got)
	}
	if s.GetCell(6, 0).Color != ColorYellow {
		t.Error("text color not applied")
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 3)
	s.DrawTextCentered(1, "Level 3", ColorDefault)

	x := (20 - 7) / 2
	if s.Get(x, 1) != 'L' || s.Get(x+6, 1) != '3' {
		t.Errorf("centered text misplaced: %q", row(s, 1))
	}

	// Multi-byte runes are centered by rune count
	s.Clear()
	s.DrawTextCentered(0, "★★", ColorDefault)
	if s.Get(9, 0) != '★' || s.Get(10, 0) != '★' {
		t.Errorf("rune-aware centering failed: %q", row(s, 0))
	}
}

func TestScreenDrawRect(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawRect(NewRect(2, 2, 3, 3), '■', ColorGreen)

	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			if c := s.GetCell(x, y); c.Rune != '■' || c.Color != ColorGreen {
				t.Errorf("DrawRect: cell (%d, %d) = %+v", x, y, c)
			}
		}
	}
	if s.Get(1, 1) != ' ' || s.Get(5, 5) != ' ' {
		t.Error("DrawRect should not affect outside area")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4), ColorWhite)

	corners := map[[2]int]rune{
		{1, 1}: '┌',
		{5, 1}: '┐',
		{1, 4}: '└',
		{5, 4}: '┘',
	}
	for pos, want := range corners {
		if got := s.Get(pos[0], pos[1]); got != want {
			t.Errorf("corner %v = %q, expected %q", pos, got, want)
		}
	}
	for x := 2; x < 5; x++ {
		if s.Get(x, 1) != '─' || s.Get(x, 4) != '─' {
			t.Errorf("horizontal edge missing at x=%d", x)
		}
	}
	for y := 2; y < 4; y++ {
		if s.Get(1, y) != '│' || s.Get(5, y) != '│' {
			t.Errorf("vertical edge missing at y=%d", y)
		}
	}

	// Degenerate boxes draw nothing
	s.Clear()
	s.DrawBox(NewRect(0, 0, 1, 5), ColorWhite)
	if s.Get(0, 0) != ' ' {
		t.Error("box narrower than 2 should not be drawn")
	}
}

func TestScreenDrawHLine(t *testing.T) {
	s := NewScreen(10, 3)
	s.DrawHLine(2, 1, 5, '─', ColorGray)

	if got := row(s, 1); got != "  ─────   " {
		t.Errorf("Row(1) = %q", got)
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 0, "abc")
	s.DrawTextColored(0, 1, "def", ColorRed)

	if got := s.String(); got != "abc\ndef" {
		t.Errorf("String() = %q, expected %q", got, "abc\ndef")
	}
}

func TestScreenResizePreservesCells(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawTextColored(0, 0, "Hello", ColorCyan)

	s.Resize(4, 2)
	if row(s, 0) != "Hell" {
		t.Errorf("Row(0) after shrink = %q", row(s, 0))
	}

	s.Resize(12, 6)
	if !strings.HasPrefix(row(s, 0), "Hell ") {
		t.Errorf("Row(0) after grow = %q", row(s, 0))
	}
	if s.GetCell(0, 0).Color != ColorCyan {
		t.Error("colors should survive resize")
	}
}

// row returns line y of the plain text rendering.
func row(s *Screen, y int) string {
	return strings.Split(s.String(), "\n")[y]
}
