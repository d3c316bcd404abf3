// Package scatter places shapes at random, non-overlapping positions.
package scatter

import (
	"math/rand"

	"github.com/vovakirdan/shape-drop/internal/core"
	"github.com/vovakirdan/shape-drop/internal/registry"
	"github.com/vovakirdan/shape-drop/internal/shapes"
)

// Name is the registry identifier of this layout.
const Name = "scatter"

// Layout scatters shapes over the board above the dock zone.
type Layout struct {
	opts shapes.Options
	rng  *rand.Rand
}

// New creates a scatter layout.
func New(opts shapes.Options, rng *rand.Rand) *Layout {
	return &Layout{opts: opts, rng: rng}
}

func init() {
	registry.Register(Name, func(opts shapes.Options, rng *rand.Rand) registry.Layout {
		return New(opts, rng)
	})
}

// Name returns the layout identifier.
func (l *Layout) Name() string {
	return Name
}

// Description returns a one-line summary.
func (l *Layout) Description() string {
	return "Shapes dropped at random spots, no overlaps when they fit"
}

// Generate places CountForLevel(level) shapes of distinct types.
// Each shape gets up to opts.Attempts tries at a free spot; when the board
// is too crowded the last candidate is kept even if it overlaps.
func (l *Layout) Generate(level, width, height int) []shapes.Shape {
	size := shapes.SizeFor(width, height, l.opts)
	types := shapes.PickTypes(l.rng, shapes.CountForLevel(level, l.opts))

	maxX := core.Max(width-size, 0)
	maxY := core.Max(shapes.DockZone(width, height, size).Y-size, 0)

	attempts := core.Max(l.opts.Attempts, 1)
	placed := make([]shapes.Shape, 0, len(types))
	for _, typ := range types {
		var candidate shapes.Shape
		for try := 0; try < attempts; try++ {
			candidate = shapes.Shape{
				Type:    typ,
				Color:   shapes.RandomColor(l.rng),
				TopLeft: core.Pt(l.rng.Intn(maxX+1), l.rng.Intn(maxY+1)),
				Size:    size,
			}
			if !overlapsAny(candidate, placed) {
				break
			}
		}
		placed = append(placed, candidate)
	}
	return placed
}

func overlapsAny(s shapes.Shape, others []shapes.Shape) bool {
	for _, o := range others {
		if s.Bounds().Intersects(o.Bounds()) {
			return true
		}
	}
	return false
}
