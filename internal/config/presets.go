package config

import (
	"sort"

	"github.com/san-kum/critter/internal/actuator"
	"github.com/san-kum/critter/internal/gait"
)

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"sprint": with(func(c *Config) {
		c.Actuator.TargetSpeed = 2.0
		c.Gait.MaxLiftTime = 1.5
		c.Gait.MaxDropTime = 1.5
		c.Gait.MaxForwardTime = 1.5
		c.Gait.MaxBackTime = 1.5
	}),
	"jammed": with(func(c *Config) {
		c.Body.Jammed = []string{"right_vertical"}
	}),
	"limits": with(func(c *Config) {
		c.Actuator.LockStrategy = actuator.StrategyLimits
	}),
	"westward": with(func(c *Config) {
		c.Direction = gait.Left
	}),
	"weak": with(func(c *Config) {
		c.Actuator.Strength = 10.0
	}),
}

func with(mod func(c *Config)) *Config {
	c := DefaultConfig()
	mod(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
