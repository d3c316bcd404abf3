package config

import (
	"testing"
	"time"
)

func TestDifficultyLevel(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "level", MaxAt: 5},
	}
	dm := NewDifficultyManager(cfg)

	tests := []struct {
		level    int
		expected float64
	}{
		{1, 0.2},
		{3, 0.6},
		{5, 1.0},
		{40, 1.0},
		{0, 0.2},
	}
	for _, tc := range tests {
		if got := dm.Level(tc.level); got < tc.expected-1e-9 || got > tc.expected+1e-9 {
			t.Errorf("Level(%d) = %g, expected %g", tc.level, got, tc.expected)
		}
	}

	cfg.Progression.Type = "none"
	if got := NewDifficultyManager(cfg).Level(5); got != 0.2 {
		t.Errorf("progression none: Level(5) = %g", got)
	}

	cfg.Enabled = false
	if NewDifficultyManager(cfg).IsEnabled() {
		t.Error("disabled manager reports enabled")
	}
}

func TestLevelDurationFunc(t *testing.T) {
	cfg := DefaultGameConfig()

	fixed := LevelDurationFunc(cfg)
	if fixed(1) != 20*time.Second || fixed(50) != 20*time.Second {
		t.Error("disabled progression must keep the base duration")
	}

	cfg.Difficulty.Enabled = true
	cfg.Difficulty.Progression.MaxAt = 5
	cfg.Difficulty.Scaling = ScalingConfig{DurationReductionMS: 8000, MinDurationMS: 14000}
	shrink := LevelDurationFunc(cfg)

	tests := []struct {
		level    int
		expected time.Duration
	}{
		{1, 20 * time.Second},
		{3, 16 * time.Second},
		{5, 14 * time.Second},
		{9, 14 * time.Second},
	}
	for _, tc := range tests {
		if got := shrink(tc.level); got != tc.expected {
			t.Errorf("duration(level %d) = %v, expected %v", tc.level, got, tc.expected)
		}
	}
}

func TestLevelDurationFuncWithoutProgression(t *testing.T) {
	cfg := DefaultGameConfig()
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = 0.5
	cfg.Difficulty.Progression.Type = "none"
	cfg.Difficulty.Scaling = ScalingConfig{DurationReductionMS: 8000, MinDurationMS: 8000}

	duration := LevelDurationFunc(cfg)
	for _, level := range []int{1, 4, 30} {
		if got := duration(level); got != 16*time.Second {
			t.Errorf("duration(level %d) = %v, expected a fixed 16s", level, got)
		}
	}
}
