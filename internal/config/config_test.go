package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/critter/internal/actuator"
	"github.com/san-kum/critter/internal/gait"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.Gait != gait.DefaultParams() {
		t.Errorf("unexpected gait params %+v", cfg.Gait)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestPhysicsUsesActuatorRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Actuator.HorizontalMin = 0.2
	cfg.Actuator.HorizontalMax = 0.8
	cfg.Body.Jammed = []string{"left_vertical"}

	p := cfg.Physics()
	if p.Horizontal.Min != 0.2 || p.Horizontal.Max != 0.8 {
		t.Errorf("horizontal = %+v", p.Horizontal)
	}
	p.Jammed[0] = "changed"
	if cfg.Body.Jammed[0] != "left_vertical" {
		t.Error("Physics must not alias the jammed list")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"bad direction", func(c *Config) { c.Direction = 7 }},
		{"negative load", func(c *Config) { c.Body.Load = -1 }},
		{"zero lift time", func(c *Config) { c.Gait.MaxLiftTime = 0 }},
		{"threshold too big", func(c *Config) { c.Gait.VerticalHaltThreshold = 0.6 }},
		{"unknown lock", func(c *Config) { c.Actuator.LockStrategy = "glue" }},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestValidateWrapsGaitError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gait.HorizontalHaltThreshold = 0
	if err := cfg.Validate(); !errors.Is(err, gait.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "critter.yaml")

	cfg := DefaultConfig()
	cfg.Direction = gait.Left
	cfg.Gait.MaxLiftTime = 2.5
	cfg.Actuator.LockStrategy = actuator.StrategyLimits
	cfg.Body.Jammed = []string{"right_horizontal"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Direction != gait.Left {
		t.Errorf("direction = %v", loaded.Direction)
	}
	if loaded.Gait.MaxLiftTime != 2.5 {
		t.Errorf("max_lift_time = %g", loaded.Gait.MaxLiftTime)
	}
	if loaded.Actuator.LockStrategy != actuator.StrategyLimits {
		t.Errorf("lock_strategy = %q", loaded.Actuator.LockStrategy)
	}
	if len(loaded.Body.Jammed) != 1 || loaded.Body.Jammed[0] != "right_horizontal" {
		t.Errorf("jammed = %v", loaded.Body.Jammed)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("duration: 12\ngait:\n  vertical_halt_threshold: 0.2\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Duration != 12 {
		t.Errorf("duration = %g", cfg.Duration)
	}
	if cfg.Gait.VerticalHaltThreshold != 0.2 {
		t.Errorf("vertical_halt_threshold = %g", cfg.Gait.VerticalHaltThreshold)
	}
	if cfg.Gait.MaxDropTime != gait.DefaultMaxDropTime {
		t.Errorf("max_drop_time lost its default: %g", cfg.Gait.MaxDropTime)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("dt lost its default: %g", cfg.Dt)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CRITTER_DURATION", "7.5")
	t.Setenv("CRITTER_GAIT__MAX_LIFT_TIME", "1.25")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Duration != 7.5 {
		t.Errorf("duration = %g", cfg.Duration)
	}
	if cfg.Gait.MaxLiftTime != 1.25 {
		t.Errorf("max_lift_time = %g", cfg.Gait.MaxLiftTime)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("dt: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("westward")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Direction != gait.Left {
		t.Errorf("expected left, got %v", cfg.Direction)
	}

	jammed := GetPreset("jammed")
	jammed.Body.Jammed[0] = "left_vertical"
	if Presets["jammed"].Body.Jammed[0] != "right_vertical" {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValid(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d names, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
