package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/san-kum/critter/internal/actuator"
	"github.com/san-kum/critter/internal/gait"
	"github.com/san-kum/critter/internal/logging"
	"github.com/san-kum/critter/internal/physics"
)

const (
	DefaultDt       = 0.02
	DefaultDuration = 30.0

	// EnvPrefix marks environment overrides. Nested keys are separated by a
	// double underscore: CRITTER_GAIT__MAX_LIFT_TIME -> gait.max_lift_time.
	EnvPrefix = "CRITTER_"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Dt          float64         `yaml:"dt"`
	Duration    float64         `yaml:"duration"`
	Direction   gait.Direction  `yaml:"direction"`
	RecordEvery int             `yaml:"record_every"`
	Gait        gait.Params     `yaml:"gait"`
	Actuator    actuator.Config `yaml:"actuator"`
	Body        BodyConfig      `yaml:"body"`
	Log         logging.Config  `yaml:"log"`
}

// BodyConfig describes the simulated substrate. Horizontal travel is taken
// from the actuator section so the two never disagree.
type BodyConfig struct {
	Vertical physics.Limits `yaml:"vertical"`
	Load     float64        `yaml:"load"`
	Jammed   []string       `yaml:"jammed"`
}

func DefaultConfig() *Config {
	body := physics.DefaultConfig()
	return &Config{
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		Direction:   gait.Right,
		RecordEvery: 1,
		Gait:        gait.DefaultParams(),
		Actuator:    actuator.DefaultConfig(),
		Body: BodyConfig{
			Vertical: body.Vertical,
			Load:     body.Load,
		},
		Log: logging.DefaultConfig(),
	}
}

func (c *Config) Clone() *Config {
	out := *c
	out.Body.Jammed = append([]string(nil), c.Body.Jammed...)
	return &out
}

// Physics returns the substrate configuration.
func (c *Config) Physics() physics.Config {
	return physics.Config{
		Horizontal: physics.Limits{Min: c.Actuator.HorizontalMin, Max: c.Actuator.HorizontalMax},
		Vertical:   c.Body.Vertical,
		Load:       c.Body.Load,
		Jammed:     append([]string(nil), c.Body.Jammed...),
	}
}

func (c *Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	if !c.Direction.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, gait.ErrUnknownDirection)
	}
	if c.RecordEvery < 0 {
		return fmt.Errorf("%w: record_every must not be negative", ErrInvalidConfig)
	}
	if c.Body.Vertical.Width() < 0 {
		return fmt.Errorf("%w: body.vertical min above max", ErrInvalidConfig)
	}
	if c.Body.Load < 0 {
		return fmt.Errorf("%w: body.load must not be negative", ErrInvalidConfig)
	}
	if err := c.Gait.Validate(); err != nil {
		return err
	}
	if err := c.Actuator.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// Load layers the YAML file at path (optional) and CRITTER_ environment
// variables over DefaultConfig, then validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func Save(path string, cfg *Config) error {
	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
