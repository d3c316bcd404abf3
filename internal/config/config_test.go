package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// isolate points HOME and the working directory at empty temp dirs.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home, work = t.TempDir(), t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)
	return home, work
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultGameConfig()) {
		t.Errorf("embedded config = %+v\nexpected %+v", cfg, DefaultGameConfig())
	}
	if len(defaultYAML) == 0 {
		t.Error("embedded default config is empty")
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home, work := isolate(t)
	writeFile(t, filepath.Join(work, LocalPath), "timer:\n  level_duration_ms: 11000\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Timer.LevelDurationMS != 11000 {
		t.Errorf("local config ignored: %d", cfg.Timer.LevelDurationMS)
	}

	writeFile(t, filepath.Join(home, ".shapedrop", "config.yaml"), "timer:\n  level_duration_ms: 12000\n")
	cfg, _ = Load("")
	if cfg.Timer.LevelDurationMS != 12000 {
		t.Errorf("user config should win over local: %d", cfg.Timer.LevelDurationMS)
	}

	custom := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, custom, "timer:\n  level_duration_ms: 13000\nboard:\n  layout: grid\n")
	cfg, _ = Load(custom)
	if cfg.Timer.LevelDurationMS != 13000 || cfg.Board.Layout != "grid" {
		t.Errorf("custom config = %+v", cfg)
	}
	if cfg.Timer.TickIntervalMS != 1000 || cfg.Board.MaxShapes != 6 {
		t.Errorf("partial file lost defaults: %+v", cfg)
	}
}

func TestLoadSkipsInvalidSearchPaths(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".shapedrop", "config.yaml"), "timer:\n  level_duration_ms: -5\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Timer.LevelDurationMS != 20000 {
		t.Errorf("invalid user config not skipped: %d", cfg.Timer.LevelDurationMS)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "timer: [oops\n")
	invalid := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalid, "board:\n  shape_scale: 3\n")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing", filepath.Join(dir, "missing.yaml"), "cannot read"},
		{"malformed", bad, "cannot parse"},
		{"out of range", invalid, "shape_scale"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Load(%s) error = %v, expected %q", tc.name, err, tc.want)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	for in, want := range map[string]DifficultyPreset{
		"":       DifficultyNormal,
		"easy":   DifficultyEasy,
		"hard":   DifficultyHard,
		"fixed":  DifficultyFixed,
		"normal": DifficultyNormal,
	} {
		got, err := ParsePreset(in)
		if err != nil || got != want {
			t.Errorf("ParsePreset(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("ParsePreset(nightmare) should fail")
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset    DifficultyPreset
		enabled   bool
		initial   float64
		duration  int
		tolerance float64
	}{
		{DifficultyEasy, true, 0.0, 30000, 0.75},
		{DifficultyNormal, true, 0.3, 20000, 0.5},
		{DifficultyHard, true, 0.7, 15000, 0.35},
		{DifficultyFixed, false, 0.0, 20000, 0.5},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultGameConfig()
			ApplyPreset(&cfg, tc.preset)

			if cfg.Difficulty.Enabled != tc.enabled || cfg.Difficulty.InitialLevel != tc.initial {
				t.Errorf("difficulty = %+v", cfg.Difficulty)
			}
			if cfg.Timer.LevelDurationMS != tc.duration || cfg.Board.HitTolerance != tc.tolerance {
				t.Errorf("duration=%d tolerance=%g", cfg.Timer.LevelDurationMS, cfg.Board.HitTolerance)
			}
		})
	}
}

func TestShapeOptions(t *testing.T) {
	cfg := DefaultGameConfig()
	cfg.Board.MaxShapes = 4
	cfg.Board.MinShapeSize = 0

	opts := cfg.ShapeOptions()
	if opts.MaxShapes != 4 || opts.MinSize != 3 || opts.Scale != 0.15 || opts.Attempts != 50 {
		t.Errorf("ShapeOptions() = %+v", opts)
	}
	if cfg.TickInterval() != time.Second || cfg.LevelDuration() != 20*time.Second {
		t.Errorf("durations = %v / %v", cfg.TickInterval(), cfg.LevelDuration())
	}
}
