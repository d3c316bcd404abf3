// Package grid places shapes in random cells of an evenly spaced grid.
package grid

import (
	"math/rand"

	"github.com/vovakirdan/shape-drop/internal/core"
	"github.com/vovakirdan/shape-drop/internal/registry"
	"github.com/vovakirdan/shape-drop/internal/shapes"
)

// Name is the registry identifier of this layout.
const Name = "grid"

// Layout snaps shapes to grid cells twice the shape size.
type Layout struct {
	opts shapes.Options
	rng  *rand.Rand
}

// New creates a grid layout.
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
	return "Shapes centred in random cells of a tidy grid"
}

// Generate places CountForLevel(level) shapes of distinct types in distinct
// grid cells. Cells are reused only when the grid has fewer cells than shapes.
func (l *Layout) Generate(level, width, height int) []shapes.Shape {
	size := shapes.SizeFor(width, height, l.opts)
	types := shapes.PickTypes(l.rng, shapes.CountForLevel(level, l.opts))

	cell := 2 * size
	usableH := shapes.DockZone(width, height, size).Y
	cols := core.Max(width/cell, 1)
	rows := core.Max(usableH/cell, 1)

	order := l.rng.Perm(cols * rows)
	placed := make([]shapes.Shape, 0, len(types))
	for i, typ := range types {
		idx := order[i%len(order)]
		col, row := idx%cols, idx/cols
		x := col*cell + (cell-size)/2
		y := row*cell + (cell-size)/2
		placed = append(placed, shapes.Shape{
			Type:    typ,
			Color:   shapes.RandomColor(l.rng),
			TopLeft: core.Pt(core.Clamp(x, 0, core.Max(width-size, 0)), core.Clamp(y, 0, core.Max(usableH-size, 0))),
			Size:    size,
		})
	}
	return placed
}
