package grid

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/shape-drop/internal/registry"
	"github.com/vovakirdan/shape-drop/internal/shapes"
)

func TestGenerateDistinctCells(t *testing.T) {
	l := New(shapes.DefaultOptions(), rand.New(rand.NewSource(11)))
	const w, h = 1080, 1920

	for level := 1; level <= 8; level++ {
		got := l.Generate(level, w, h)
		if want := shapes.CountForLevel(level, shapes.DefaultOptions()); len(got) != want {
			t.Fatalf("level %d: %d shapes, expected %d", level, len(got), want)
		}

		types := make(map[shapes.Type]bool)
		for i, s := range got {
			if types[s.Type] {
				t.Fatalf("level %d: duplicate type %s", level, s.Type)
			}
			types[s.Type] = true

			cell := 2 * s.Size
			if (s.TopLeft.X-s.Size/2)%cell != 0 || (s.TopLeft.Y-s.Size/2)%cell != 0 {
				t.Errorf("shape %+v not centred in a grid cell", s)
			}
			for j := i + 1; j < len(got); j++ {
				if s.Bounds().Intersects(got[j].Bounds()) {
					t.Errorf("shapes %d and %d overlap", i, j)
				}
			}
		}
	}
}

func TestGenerateCrowdedGridReusesCells(t *testing.T) {
	opts := shapes.DefaultOptions()
	opts.MaxShapes = 8
	l := New(opts, rand.New(rand.NewSource(2)))

	// 12x12 with min size 3 gives a 2x1 grid above the dock.
	got := l.Generate(8, 12, 12)
	if len(got) != 8 {
		t.Fatalf("expected 8 shapes, got %d", len(got))
	}
	for _, s := range got {
		b := s.Bounds()
		if b.X < 0 || b.Y < 0 || b.Right() > 12 || b.Bottom() > 12 {
			t.Errorf("shape %+v leaves the board", s)
		}
	}
}

func TestRegistered(t *testing.T) {
	if !registry.Exists(Name) {
		t.Fatalf("layout %q not registered", Name)
	}
}

func TestGenerateKeepsDockClearOnShortBoards(t *testing.T) {
	l := New(shapes.DefaultOptions(), rand.New(rand.NewSource(4)))

	for h := 5; h <= 12; h++ {
		const w = 40
		for _, s := range l.Generate(3, w, h) {
			if s.Bounds().Intersects(shapes.DockZone(w, h, s.Size)) {
				t.Errorf("%dx%d board: shape %+v covers the dock zone", w, h, s)
			}
		}
	}
}
