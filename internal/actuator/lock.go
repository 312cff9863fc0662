package actuator

import (
	"github.com/san-kum/critter/internal/limb"
	"github.com/san-kum/critter/internal/physics"
)

// LockStrategy holds an axis in place and releases it. Both operations are
// idempotent.
type LockStrategy interface {
	Name() string
	Lock(j *physics.Joint, side limb.Side)
	Unlock(j *physics.Joint, side limb.Side)
}

// FixedLock swaps the slider for a rigid hold constraint. A locked axis
// cannot move at all.
type FixedLock struct{}

func (FixedLock) Name() string { return StrategyFixed }

func (FixedLock) Lock(j *physics.Joint, side limb.Side) {
	j.SliderEnabled = false
	j.HoldEnabled = true
}

func (FixedLock) Unlock(j *physics.Joint, side limb.Side) {
	j.HoldEnabled = false
	j.SliderEnabled = true
}

// squeezeSlack absorbs rounding in the width of an already squeezed range.
const squeezeSlack = 1e-9

// LimitsLock squeezes the slider's travel limits to Tolerance either side of
// the current translation. The axis stays compliant inside that band.
// Unlocking restores the configured horizontal range or the captured native
// vertical range.
type LimitsLock struct {
	Tolerance  float64
	Horizontal physics.Limits
	Vertical   [limb.NumSides]physics.Limits
}

func (l *LimitsLock) Name() string { return StrategyLimits }

func (l *LimitsLock) Lock(j *physics.Joint, side limb.Side) {
	if j.Limits.Width() <= l.Tolerance*2+squeezeSlack {
		return
	}
	j.SetLimits(physics.Limits{
		Min: j.Translation - l.Tolerance,
		Max: j.Translation + l.Tolerance,
	})
}

func (l *LimitsLock) Unlock(j *physics.Joint, side limb.Side) {
	if side.Vertical() {
		j.SetLimits(l.Vertical[side])
		return
	}
	j.SetLimits(l.Horizontal)
}
