// Package registry provides a global registry of board layouts.
// Layouts register themselves in init() functions, so the CLI can list and
// select them by name without hardcoded dependencies.
package registry

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/vovakirdan/shape-drop/internal/shapes"
)

// Layout produces the screen shapes for a level. Implementations are the
// shape geometry providers consumed by the session controller.
type Layout interface {
	// Name returns the identifier used on the command line (e.g. "scatter").
	Name() string

	// Description returns a one-line summary for `shapedrop layouts`.
	Description() string

	// Generate returns the ordered screen shapes for a level on a
	// width x height board. The count depends only on the level; types,
	// colors and positions are randomized per call.
	Generate(level, width, height int) []shapes.Shape
}

// LayoutInfo contains metadata about a registered layout.
type LayoutInfo struct {
	Name        string
	Description string
}

// Factory creates a layout drawing randomness from rng.
type Factory func(opts shapes.Options, rng *rand.Rand) Layout

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a layout factory to the registry.
// Panics if a layout with the same name is already registered.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: layout %q already registered", name))
	}

	factories[name] = f
	descriptions[name] = f(shapes.DefaultOptions(), rand.New(rand.NewSource(1))).Description()
}

// List returns all registered layouts, sorted by name.
func List() []LayoutInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]LayoutInfo, 0, len(factories))
	for name := range factories {
		result = append(result, LayoutInfo{
			Name:        name,
			Description: descriptions[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a layout by name.
func Create(name string, opts shapes.Options, rng *rand.Rand) (Layout, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown layout %q", name)
	}

	return f(opts, rng), nil
}

// Exists checks if a layout with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
