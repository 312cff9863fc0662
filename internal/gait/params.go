package gait

import "fmt"

const (
	DefaultMaxLiftTime             = 3.0
	DefaultMaxForwardTime          = 3.0
	DefaultMaxBackTime             = 3.0
	DefaultMaxDropTime             = 3.0
	DefaultVerticalHaltThreshold   = 0.1
	DefaultHorizontalHaltThreshold = 0.03
)

// Params are the per-phase time budgets (seconds) and halt thresholds
// (fractions of axis travel).
type Params struct {
	MaxLiftTime             float64 `yaml:"max_lift_time" json:"max_lift_time"`
	MaxForwardTime          float64 `yaml:"max_forward_time" json:"max_forward_time"`
	MaxBackTime             float64 `yaml:"max_back_time" json:"max_back_time"`
	MaxDropTime             float64 `yaml:"max_drop_time" json:"max_drop_time"`
	VerticalHaltThreshold   float64 `yaml:"vertical_halt_threshold" json:"vertical_halt_threshold"`
	HorizontalHaltThreshold float64 `yaml:"horizontal_halt_threshold" json:"horizontal_halt_threshold"`
}

func DefaultParams() Params {
	return Params{
		MaxLiftTime:             DefaultMaxLiftTime,
		MaxForwardTime:          DefaultMaxForwardTime,
		MaxBackTime:             DefaultMaxBackTime,
		MaxDropTime:             DefaultMaxDropTime,
		VerticalHaltThreshold:   DefaultVerticalHaltThreshold,
		HorizontalHaltThreshold: DefaultHorizontalHaltThreshold,
	}
}

// Validate rejects parameters under which a phase could never complete by
// threshold. Values are not clamped.
func (p Params) Validate() error {
	durations := []struct {
		name string
		v    float64
	}{
		{"max_lift_time", p.MaxLiftTime},
		{"max_forward_time", p.MaxForwardTime},
		{"max_back_time", p.MaxBackTime},
		{"max_drop_time", p.MaxDropTime},
	}
	for _, d := range durations {
		if !(d.v > 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidParams, d.name, d.v)
		}
	}

	thresholds := []struct {
		name string
		v    float64
	}{
		{"vertical_halt_threshold", p.VerticalHaltThreshold},
		{"horizontal_halt_threshold", p.HorizontalHaltThreshold},
	}
	for _, th := range thresholds {
		if !(th.v > 0 && th.v < 0.5) {
			return fmt.Errorf("%w: %s must be in (0, 0.5), got %g", ErrInvalidParams, th.name, th.v)
		}
	}
	return nil
}

// MaxTimeForState returns the time budget for a phase. LeftLegOut and
// RightLegIn get MaxBackTime when walking right and MaxForwardTime when
// walking left; LeftLegIn and RightLegOut the reverse. Unknown directions
// time like Right, matching OrderFor.
func (p Params) MaxTimeForState(m MoveState, d Direction) float64 {
	switch m {
	case LeftLegUp, RightLegUp:
		return p.MaxLiftTime
	case LeftLegDown, RightLegDown:
		return p.MaxDropTime
	case LeftLegOut, RightLegIn:
		if d == Left {
			return p.MaxForwardTime
		}
		return p.MaxBackTime
	default:
		if d == Left {
			return p.MaxBackTime
		}
		return p.MaxForwardTime
	}
}
