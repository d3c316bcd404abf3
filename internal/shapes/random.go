package shapes

import (
	"math/rand"

	"github.com/vovakirdan/shape-drop/internal/core"
)

// PickTypes returns n distinct shape types in random order.
// n is clamped to the number of available types.
func PickTypes(rng *rand.Rand, n int) []Type {
	n = core.Clamp(n, 0, len(AllTypes))
	perm := rng.Perm(len(AllTypes))
	types := make([]Type, n)
	for i := range types {
		types[i] = AllTypes[perm[i]]
	}
	return types
}

// RandomColor picks a color from core.ShapePalette.
func RandomColor(rng *rand.Rand) core.Color {
	return core.ShapePalette[rng.Intn(len(core.ShapePalette))]
}
