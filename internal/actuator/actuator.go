package actuator

import (
	"fmt"

	"github.com/san-kum/critter/internal/limb"
	"github.com/san-kum/critter/internal/physics"
)

const (
	StrategyFixed  = "fixed"
	StrategyLimits = "limits"

	DefaultTargetSpeed   = 1.0
	DefaultStrength      = 50.0
	DefaultHorizontalMin = 0.5
	DefaultHorizontalMax = 1.5
	DefaultLockTolerance = 0.01
)

type Config struct {
	TargetSpeed   float64 `yaml:"target_speed"`
	Strength      float64 `yaml:"strength"`
	HorizontalMin float64 `yaml:"horizontal_min"`
	HorizontalMax float64 `yaml:"horizontal_max"`
	LockStrategy  string  `yaml:"lock_strategy"`
	LockTolerance float64 `yaml:"lock_tolerance"`
}

func DefaultConfig() Config {
	return Config{
		TargetSpeed:   DefaultTargetSpeed,
		Strength:      DefaultStrength,
		HorizontalMin: DefaultHorizontalMin,
		HorizontalMax: DefaultHorizontalMax,
		LockStrategy:  StrategyFixed,
		LockTolerance: DefaultLockTolerance,
	}
}

func (c Config) Validate() error {
	if !(c.TargetSpeed > 0) {
		return fmt.Errorf("%w: target_speed must be positive, got %g", ErrInvalidConfig, c.TargetSpeed)
	}
	if !(c.Strength > 0) {
		return fmt.Errorf("%w: strength must be positive, got %g", ErrInvalidConfig, c.Strength)
	}
	if !(c.HorizontalMin < c.HorizontalMax) {
		return fmt.Errorf("%w: horizontal_min %g must be below horizontal_max %g", ErrInvalidConfig, c.HorizontalMin, c.HorizontalMax)
	}
	if !(c.LockTolerance > 0) {
		return fmt.Errorf("%w: lock_tolerance must be positive, got %g", ErrInvalidConfig, c.LockTolerance)
	}
	switch c.LockStrategy {
	case StrategyFixed, StrategyLimits, "":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, c.LockStrategy)
	}
	return nil
}

// Head drives the four joints of a body.
type Head struct {
	body   *physics.Body
	cfg    Config
	lock   LockStrategy
	native [limb.NumSides]physics.Limits
}

var _ limb.Actuator = (*Head)(nil)

// New configures the drive torque limit on every axis and captures the
// native vertical travel limits.
func New(body *physics.Body, cfg Config) (*Head, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &Head{body: body, cfg: cfg}

	for _, s := range limb.Sides() {
		j := body.Joint(s)
		j.Motor = physics.Motor{MaxTorque: cfg.Strength}
		if s.Vertical() {
			h.native[s] = j.Limits
		}
	}

	lock, err := h.newStrategy(cfg.LockStrategy)
	if err != nil {
		return nil, err
	}
	h.lock = lock
	return h, nil
}

func (h *Head) newStrategy(name string) (LockStrategy, error) {
	switch name {
	case StrategyFixed, "":
		return FixedLock{}, nil
	case StrategyLimits:
		return &LimitsLock{
			Tolerance:  h.cfg.LockTolerance,
			Horizontal: physics.Limits{Min: h.cfg.HorizontalMin, Max: h.cfg.HorizontalMax},
			Vertical:   h.native,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

func (h *Head) Strategy() LockStrategy { return h.lock }

// NativeLimits returns the travel limits captured for a vertical axis at
// construction. Horizontal axes report the configured horizontal range.
func (h *Head) NativeLimits(side limb.Side) physics.Limits {
	if side.Vertical() {
		return h.native[side]
	}
	return physics.Limits{Min: h.cfg.HorizontalMin, Max: h.cfg.HorizontalMax}
}

func (h *Head) SetLock(side limb.Side, locked bool) {
	j := h.body.Joint(side)
	if locked {
		h.lock.Lock(j, side)
	} else {
		h.lock.Unlock(j, side)
	}
}

// SetMotor sets the drive on an axis. It never changes the lock state.
func (h *Head) SetMotor(side limb.Side, d limb.Drive) {
	j := h.body.Joint(side)
	if d == limb.Off {
		j.UseMotor = false
		return
	}
	j.Motor.Speed = h.cfg.TargetSpeed * d.Sign()
	j.UseMotor = true
}

// Progress returns the axis translation remapped from its current limits to
// [0, 1]. A zero-width range reports 0.
func (h *Head) Progress(side limb.Side) float64 {
	j := h.body.Joint(side)
	return j.Limits.Normalize(j.Translation)
}
