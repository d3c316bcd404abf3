// Package config provides YAML-based game configuration loading and
// difficulty management for shape-drop.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/shape-drop/internal/shapes"
)

// GameConfig contains all tunable parameters of a play session.
type GameConfig struct {
	Timer      TimerConfig      `yaml:"timer"`
	Board      BoardConfig      `yaml:"board"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// TimerConfig defines the level countdown.
type TimerConfig struct {
	LevelDurationMS int `yaml:"level_duration_ms"`
	TickIntervalMS  int `yaml:"tick_interval_ms"`
}

// BoardConfig defines how shapes are laid out and matched.
type BoardConfig struct {
	Layout            string  `yaml:"layout"`
	ShapeScale        float64 `yaml:"shape_scale"`    // Fraction of the short board side
	MinShapeSize      int     `yaml:"min_shape_size"` // In cells
	MaxShapes         int     `yaml:"max_shapes"`
	HitTolerance      float64 `yaml:"hit_tolerance"` // Fraction of shape size, per axis
	PlacementAttempts int     `yaml:"placement_attempts"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases across levels.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "level" or "none"
	MaxAt int    `yaml:"max_at"` // Level at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	DurationReductionMS int `yaml:"duration_reduction_ms"` // Countdown reduction at max difficulty
	MinDurationMS       int `yaml:"min_duration_ms"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. An empty name means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (use easy, normal, hard or fixed)", name)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.Timer.LevelDurationMS = 30000
		cfg.Board.HitTolerance = 0.75
	case DifficultyHard:
		cfg.Timer.LevelDurationMS = 15000
		cfg.Board.HitTolerance = 0.35
	}
}

// Validate reports the first unusable value.
func (c GameConfig) Validate() error {
	switch {
	case c.Timer.LevelDurationMS <= 0:
		return fmt.Errorf("config: timer.level_duration_ms must be positive, got %d", c.Timer.LevelDurationMS)
	case c.Timer.TickIntervalMS <= 0:
		return fmt.Errorf("config: timer.tick_interval_ms must be positive, got %d", c.Timer.TickIntervalMS)
	case c.Board.ShapeScale <= 0 || c.Board.ShapeScale > 1:
		return fmt.Errorf("config: board.shape_scale must be in (0, 1], got %g", c.Board.ShapeScale)
	case c.Board.MaxShapes <= 0:
		return fmt.Errorf("config: board.max_shapes must be positive, got %d", c.Board.MaxShapes)
	case c.Board.HitTolerance <= 0:
		return fmt.Errorf("config: board.hit_tolerance must be positive, got %g", c.Board.HitTolerance)
	}
	return nil
}

// ShapeOptions converts the board section for layout generation.
func (c GameConfig) ShapeOptions() shapes.Options {
	opts := shapes.DefaultOptions()
	if c.Board.ShapeScale > 0 {
		opts.Scale = c.Board.ShapeScale
	}
	if c.Board.MinShapeSize > 0 {
		opts.MinSize = c.Board.MinShapeSize
	}
	if c.Board.MaxShapes > 0 {
		opts.MaxShapes = c.Board.MaxShapes
	}
	if c.Board.PlacementAttempts > 0 {
		opts.Attempts = c.Board.PlacementAttempts
	}
	return opts
}

// LevelDuration returns the base countdown of a level.
func (c GameConfig) LevelDuration() time.Duration {
	return time.Duration(c.Timer.LevelDurationMS) * time.Millisecond
}

// TickInterval returns the countdown update period.
func (c GameConfig) TickInterval() time.Duration {
	return time.Duration(c.Timer.TickIntervalMS) * time.Millisecond
}
