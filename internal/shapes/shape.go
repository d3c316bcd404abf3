// Package shapes defines the matchable board objects and the sizing rules
// shared by every layout.
package shapes

import (
	"github.com/vovakirdan/shape-drop/internal/core"
)

// Type identifies a shape kind. Two shapes match when their types are equal.
type Type int

const (
	Circle Type = iota
	Square
	Triangle
	Star
	Diamond
	Hexagon
	Heart
	Cross
)

// AllTypes lists every shape type in declaration order.
var AllTypes = []Type{Circle, Square, Triangle, Star, Diamond, Hexagon, Heart, Cross}

// String returns the display name of the type.
func (t Type) String() string {
	switch t {
	case Circle:
		return "circle"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	case Star:
		return "star"
	case Diamond:
		return "diamond"
	case Hexagon:
		return "hexagon"
	case Heart:
		return "heart"
	case Cross:
		return "cross"
	default:
		return "unknown"
	}
}

// Glyph returns the rune used to paint the type in a terminal.
func (t Type) Glyph() rune {
	switch t {
	case Circle:
		return '●'
	case Square:
		return '■'
	case Triangle:
		return '▲'
	case Star:
		return '★'
	case Diamond:
		return '◆'
	case Hexagon:
		return '⬢'
	case Heart:
		return '♥'
	case Cross:
		return '✚'
	default:
		return '?'
	}
}

// Shape is a typed, colored, positioned square game object.
// Shapes are values; use the With* helpers to derive modified copies.
type Shape struct {
	Type    Type
	Color   core.Color
	TopLeft core.Point
	Size    int
}

// WithTopLeft returns a copy of s moved to p.
func (s Shape) WithTopLeft(p core.Point) Shape {
	s.TopLeft = p
	return s
}

// Bounds returns the square occupied by the shape.
func (s Shape) Bounds() core.Rect {
	return core.NewRect(s.TopLeft.X, s.TopLeft.Y, s.Size, s.Size)
}

// Center returns the shape's midpoint, TopLeft + Size/2 on both axes.
func (s Shape) Center() core.Point {
	half := s.Size / 2
	return s.TopLeft.Add(core.Pt(half, half))
}

// Matches reports whether s and other share a type.
func (s Shape) Matches(other Shape) bool {
	return s.Type == other.Type
}

// Options tunes layout generation.
type Options struct {
	Scale     float64 // Shape size as a fraction of the shorter screen side
	MinSize   int     // Lower bound on shape size
	MaxShapes int     // Cap on shapes per level, at most len(AllTypes)
	Attempts  int     // Placement retries before accepting an overlap
}

// DefaultOptions returns the options used when no config is loaded.
func DefaultOptions() Options {
	return Options{
		Scale:     0.15,
		MinSize:   3,
		MaxShapes: 6,
		Attempts:  50,
	}
}

// SizeFor returns the shape edge length for a width x height board. It is
// at most a third of the height, so a row of shapes fits above the dock zone.
func SizeFor(width, height int, opts Options) int {
	size := int(float64(core.Min(width, height)) * opts.Scale)
	size = core.Max(size, core.Max(opts.MinSize, 1))
	return core.Max(core.Min(size, height/3), 1)
}

// CountForLevel returns how many shapes a level shows: one per level number,
// capped by MaxShapes and by the number of distinct types.
func CountForLevel(level int, opts Options) int {
	limit := len(AllTypes)
	if opts.MaxShapes > 0 {
		limit = core.Min(limit, opts.MaxShapes)
	}
	return core.Clamp(level, 1, limit)
}

// Dock returns the position where the shape to match rests between drags:
// horizontally centred on the bottom edge.
func Dock(width, height, size int) core.Point {
	return core.Pt((width-size)/2, core.Max(height-size, 0))
}

// DockZone returns the band at the bottom of the board that layouts keep
// free so the resting target never covers a screen shape.
func DockZone(width, height, size int) core.Rect {
	top := core.Max(height-2*size, 0)
	return core.NewRect(0, top, width, height-top)
}
