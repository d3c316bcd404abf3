package config

import (
	"math"
	"time"
)

// DifficultyManager calculates per-level game parameters.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the difficulty (0.0 to 1.0) for a game level, starting at 1.
func (d *DifficultyManager) Level(gameLevel int) float64 {
	if !d.cfg.Enabled {
		return 0
	}
	if d.cfg.Progression.Type != "level" {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 1 {
		return 1.0
	}

	progress := clampF(float64(gameLevel-1)/(maxAt-1), 0.0, 1.0)
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Duration returns the countdown for a game level.
func (d *DifficultyManager) Duration(base time.Duration, gameLevel int) time.Duration {
	level := d.Level(gameLevel)
	reduction := time.Duration(level*float64(d.cfg.Scaling.DurationReductionMS)) * time.Millisecond
	result := base - reduction

	floor := time.Duration(d.cfg.Scaling.MinDurationMS) * time.Millisecond
	if floor > base {
		floor = base
	}
	if result < floor {
		result = floor
	}
	return result
}

// LevelDurationFunc returns the per-level countdown for a configuration.
func LevelDurationFunc(cfg GameConfig) func(level int) time.Duration {
	dm := NewDifficultyManager(cfg.Difficulty)
	base := cfg.LevelDuration()
	if !dm.IsEnabled() {
		fixed := dm.Duration(base, 1)
		return func(int) time.Duration { return fixed }
	}
	return func(level int) time.Duration {
		return dm.Duration(base, level)
	}
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
