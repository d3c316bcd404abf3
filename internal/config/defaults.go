package config

import (
	_ "embed"
)

//go:embed defaults/shapedrop.yaml
var defaultYAML []byte

// DefaultGameConfig returns the hardcoded configuration.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Timer: TimerConfig{
			LevelDurationMS: 20000,
			TickIntervalMS:  1000,
		},
		Board: BoardConfig{
			Layout:            "scatter",
			ShapeScale:        0.15,
			MinShapeSize:      3,
			MaxShapes:         6,
			HitTolerance:      0.5,
			PlacementAttempts: 50,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "level",
				MaxAt: 10,
			},
			Scaling: ScalingConfig{
				DurationReductionMS: 8000,
				MinDurationMS:       8000,
			},
		},
	}
}
