package gait

import "github.com/san-kum/critter/internal/limb"

// fakeActuator records axis state and serves scripted progress readings.
type fakeActuator struct {
	locked   [limb.NumSides]bool
	drive    [limb.NumSides]limb.Drive
	progress func(side limb.Side) float64
	reads    []limb.Side
}

func newFakeActuator(progress func(side limb.Side) float64) *fakeActuator {
	return &fakeActuator{progress: progress}
}

func (f *fakeActuator) SetLock(side limb.Side, locked bool)   { f.locked[side] = locked }
func (f *fakeActuator) SetMotor(side limb.Side, d limb.Drive) { f.drive[side] = d }

func (f *fakeActuator) Progress(side limb.Side) float64 {
	f.reads = append(f.reads, side)
	if f.progress == nil {
		return 0.5
	}
	return f.progress(side)
}

func (f *fakeActuator) free() []limb.Side {
	var out []limb.Side
	for _, s := range limb.Sides() {
		if !f.locked[s] {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeActuator) driven() []limb.Side {
	var out []limb.Side
	for _, s := range limb.Sides() {
		if f.drive[s] != limb.Off {
			out = append(out, s)
		}
	}
	return out
}

// neverFinished returns a progress reading that satisfies no halt threshold
// for the given phase.
func neverFinished(m MoveState) float64 {
	switch m.Motion() {
	case Up, In:
		return 1
	default:
		return 0
	}
}

// finished returns a progress reading that satisfies the halt threshold for
// the given phase.
func finished(m MoveState) float64 {
	return 1 - neverFinished(m)
}
