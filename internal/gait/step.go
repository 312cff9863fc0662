package gait

import (
	"fmt"
	"math"

	"github.com/san-kum/critter/internal/limb"
)

// timerSlack absorbs accumulated rounding when the phase timer is the sum of
// many fixed ticks, so a budget that is a whole number of ticks expires on
// that tick.
const timerSlack = 1e-9

// State is the complete sequencer state. It is plain data and can be
// persisted and restored between runs.
type State struct {
	Index     int       `yaml:"index" json:"index"`
	Timer     float64   `yaml:"timer" json:"timer"`
	Direction Direction `yaml:"direction" json:"direction"`
}

// Phase returns the active phase under the state's direction.
func (s State) Phase() MoveState {
	return OrderFor(s.Direction)[s.Index]
}

func (s State) Validate() error {
	if s.Index < 0 || s.Index >= OrderLen {
		return fmt.Errorf("%w: index %d", ErrInvalidState, s.Index)
	}
	if !(s.Timer >= 0) {
		return fmt.Errorf("%w: timer %g", ErrInvalidState, s.Timer)
	}
	if !s.Direction.Valid() {
		return fmt.Errorf("%w: direction %d", ErrInvalidState, int(s.Direction))
	}
	return nil
}

// ActiveSide returns the axis whose progress Step will read on the next tick
// for the given direction.
func ActiveSide(s State, d Direction) limb.Side {
	return OrderFor(d)[s.Index].Side()
}

type TickInput struct {
	Dt        float64
	Direction Direction
	// Progress is the normalized position of ActiveSide(state, Direction)
	// read before this tick's commands are issued.
	Progress float64
}

// sanitize replaces input that would corrupt the state. An unknown direction
// keeps the state's direction and a negative or non-finite dt counts as no
// elapsed time. ok reports whether in was usable as given.
func (in TickInput) sanitize(st State) (_ TickInput, ok bool) {
	ok = true
	if !in.Direction.Valid() {
		in.Direction = st.Direction
		ok = false
	}
	if !(in.Dt >= 0) || math.IsInf(in.Dt, 1) {
		in.Dt = 0
		ok = false
	}
	return in, ok
}

// Outcome is what one tick decided.
type Outcome struct {
	Reason    Reason
	Completed MoveState
	Elapsed   float64
	Active    MoveState
	Commands  []limb.Command
}

func (o Outcome) Advanced() bool {
	return o.Reason != None
}

// TimedOut reports whether a phase has used up its time budget.
func TimedOut(m MoveState, timer float64, d Direction, p Params) bool {
	return timer >= p.MaxTimeForState(m, d)-timerSlack
}

// ThresholdFinished reports whether the axis driven by a phase has crossed
// its halt threshold. Vertical progress falls as the foot rises and
// horizontal progress rises as the foot moves out.
func ThresholdFinished(m MoveState, progress float64, p Params) bool {
	switch m.Motion() {
	case Up:
		return progress < p.VerticalHaltThreshold
	case Down:
		return progress > 1-p.VerticalHaltThreshold
	case Out:
		return progress > 1-p.HorizontalHaltThreshold
	default:
		return progress < p.HorizontalHaltThreshold
	}
}

// Step advances the sequencer by one tick. It returns the new state and the
// commands to issue, in order. When the active phase completes, the commands
// begin with a halt of every axis; they always end with the actuation of the
// phase that is active after the tick. Unusable input is sanitized first.
func Step(st State, in TickInput, p Params) (State, Outcome) {
	in, _ = in.sanitize(st)
	st.Direction = in.Direction
	st.Timer += in.Dt

	var out Outcome
	phase := st.Phase()

	switch {
	case TimedOut(phase, st.Timer, st.Direction, p):
		out.Reason = Timeout
	case ThresholdFinished(phase, in.Progress, p):
		out.Reason = Threshold
	}

	if out.Advanced() {
		out.Completed = phase
		out.Elapsed = st.Timer
		out.Commands = append(out.Commands, limb.Halt()...)
		st.Index = (st.Index + 1) % OrderLen
		st.Timer = 0
	}

	out.Active = st.Phase()
	out.Commands = append(out.Commands, limb.Motion(out.Active.Side(), out.Active.Input()))
	return st, out
}
