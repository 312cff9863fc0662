package physics

import (
	"fmt"

	"github.com/san-kum/critter/internal/limb"
)

type Config struct {
	Horizontal Limits   `yaml:"horizontal"`
	Vertical   Limits   `yaml:"vertical"`
	Load       float64  `yaml:"load"`
	Jammed     []string `yaml:"jammed"`
}

func DefaultConfig() Config {
	return Config{
		Horizontal: Limits{Min: 0.5, Max: 1.5},
		Vertical:   Limits{Min: 0, Max: 1},
		Load:       20,
	}
}

// Body is the critter's physical substrate: four slider joints and a body
// position along the ground.
type Body struct {
	joints     [limb.NumSides]*Joint
	horizontal Limits
	vertical   Limits
	X          float64
}

// NewBody builds a body standing with both feet planted and both horizontal
// axes centred in their travel.
func NewBody(cfg Config) (*Body, error) {
	if cfg.Horizontal.Width() < 0 {
		return nil, fmt.Errorf("%w: horizontal limits [%g, %g]", ErrInvalidLimits, cfg.Horizontal.Min, cfg.Horizontal.Max)
	}
	if cfg.Vertical.Width() < 0 {
		return nil, fmt.Errorf("%w: vertical limits [%g, %g]", ErrInvalidLimits, cfg.Vertical.Min, cfg.Vertical.Max)
	}
	if cfg.Load < 0 {
		return nil, fmt.Errorf("%w: load %g", ErrInvalidLoad, cfg.Load)
	}

	b := &Body{horizontal: cfg.Horizontal, vertical: cfg.Vertical}
	for _, s := range limb.Sides() {
		if s.Vertical() {
			b.joints[s] = NewJoint(cfg.Vertical, cfg.Vertical.Max, cfg.Load)
		} else {
			mid := (cfg.Horizontal.Min + cfg.Horizontal.Max) / 2
			b.joints[s] = NewJoint(cfg.Horizontal, mid, cfg.Load)
		}
	}
	for _, name := range cfg.Jammed {
		s, err := limb.ParseSide(name)
		if err != nil {
			return nil, err
		}
		b.joints[s].Jammed = true
	}
	return b, nil
}

func (b *Body) Joint(side limb.Side) *Joint {
	return b.joints[side]
}

// Planted reports whether the foot on the given leg is low enough to bear
// weight. Either axis of the leg may be passed.
func (b *Body) Planted(side limb.Side) bool {
	v := side
	if !v.Vertical() {
		v = side.Partner()
	}
	if b.vertical.Width() <= 0 {
		return true
	}
	return b.NativeProgress(v) >= 0.5
}

// NativeProgress normalizes an axis over the body's configured travel, which
// is unaffected by how the actuator layer currently constrains the joint.
func (b *Body) NativeProgress(side limb.Side) float64 {
	if side.Vertical() {
		return b.vertical.Normalize(b.joints[side].Translation)
	}
	return b.horizontal.Normalize(b.joints[side].Translation)
}

// Step advances all joints by dt. A planted foot sliding along its
// horizontal axis pushes the body the opposite way: left feet extend toward
// -x, right feet toward +x.
func (b *Body) Step(dt float64) {
	for _, s := range limb.Sides() {
		delta := b.joints[s].Step(dt)
		if s.Vertical() || delta == 0 || !b.Planted(s) {
			continue
		}
		if s.Left() {
			b.X += delta
		} else {
			b.X -= delta
		}
	}
}

// Translations returns the raw translation of every axis in side order.
func (b *Body) Translations() [limb.NumSides]float64 {
	var out [limb.NumSides]float64
	for i, j := range b.joints {
		out[i] = j.Translation
	}
	return out
}
