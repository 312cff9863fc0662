package physics

import "math"

type Limits struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

func (l Limits) Width() float64 {
	return l.Max - l.Min
}

func (l Limits) Clamp(v float64) float64 {
	return math.Max(l.Min, math.Min(l.Max, v))
}

// Normalize maps v from [Min, Max] to [0, 1], clamped. A zero-width range
// maps everything to 0.
func (l Limits) Normalize(v float64) float64 {
	if l.Min == l.Max {
		return 0
	}
	t := (v - l.Min) / (l.Max - l.Min)
	if math.IsNaN(t) {
		return 0
	}
	return math.Max(0, math.Min(1, t))
}

type Motor struct {
	Speed     float64
	MaxTorque float64
}

// Joint is a kinematic linear slider. When the slider is enabled, the hold
// constraint is released and the motor is on, the translation moves at the
// motor speed, derated when the load exceeds the motor's torque limit.
type Joint struct {
	Translation   float64
	Limits        Limits
	SliderEnabled bool
	HoldEnabled   bool
	UseMotor      bool
	Motor         Motor
	Load          float64
	Jammed        bool
}

func NewJoint(limits Limits, translation float64, load float64) *Joint {
	return &Joint{
		Translation:   limits.Clamp(translation),
		Limits:        limits,
		SliderEnabled: true,
		Load:          load,
	}
}

// SetLimits replaces the travel limits and pulls the translation inside them.
func (j *Joint) SetLimits(l Limits) {
	j.Limits = l
	j.Translation = l.Clamp(j.Translation)
}

func (j *Joint) Free() bool {
	return j.SliderEnabled && !j.HoldEnabled && !j.Jammed
}

// EffectiveSpeed is the signed speed the joint moves at this tick.
func (j *Joint) EffectiveSpeed() float64 {
	if !j.Free() || !j.UseMotor {
		return 0
	}
	speed := j.Motor.Speed
	if j.Load > 0 && j.Motor.MaxTorque < j.Load {
		speed *= math.Max(j.Motor.MaxTorque, 0) / j.Load
	}
	return speed
}

// Step advances the joint by dt and returns the signed distance travelled.
func (j *Joint) Step(dt float64) float64 {
	speed := j.EffectiveSpeed()
	if speed == 0 {
		return 0
	}
	next := j.Limits.Clamp(j.Translation + speed*dt)
	delta := next - j.Translation
	j.Translation = next
	return delta
}
