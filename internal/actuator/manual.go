package actuator

import "github.com/san-kum/critter/internal/limb"

// Manual drives every axis directly from a signed input, bypassing the gait
// sequencer. Inputs within limb.ZeroInput of zero lock the axis.
type Manual struct {
	act    limb.Actuator
	inputs [limb.NumSides]float64
}

func NewManual(act limb.Actuator) *Manual {
	return &Manual{act: act}
}

// Set stores the input for one axis without applying it.
func (m *Manual) Set(side limb.Side, input float64) {
	m.inputs[side] = input
}

func (m *Manual) Inputs() [limb.NumSides]float64 {
	return m.inputs
}

// Apply issues a lock-or-drive command for each axis from the stored inputs.
func (m *Manual) Apply() {
	for _, s := range limb.Sides() {
		limb.Apply(m.act, limb.Motion(s, m.inputs[s]))
	}
}
