package gait

import (
	"github.com/san-kum/critter/internal/limb"
	"go.uber.org/zap"
)

// Transition describes a completed phase.
type Transition struct {
	Clock     float64   `json:"clock"`
	Index     int       `json:"index"`
	From      MoveState `json:"from"`
	To        MoveState `json:"to"`
	Reason    Reason    `json:"reason"`
	Elapsed   float64   `json:"elapsed"`
	Direction Direction `json:"direction"`
}

type Observer interface {
	OnTransition(t Transition)
}

// Sequencer runs Step against an actuator once per tick. It is not safe for
// concurrent use.
type Sequencer struct {
	act       limb.Actuator
	params    Params
	state     State
	clock     float64
	started   bool
	log       *zap.Logger
	observers []Observer
}

func NewSequencer(act limb.Actuator, params Params) (*Sequencer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Sequencer{
		act:       act,
		params:    params,
		log:       zap.NewNop(),
		observers: make([]Observer, 0),
	}, nil
}

func (s *Sequencer) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	s.log = l
}

func (s *Sequencer) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Sequencer) State() State   { return s.state }
func (s *Sequencer) Params() Params { return s.params }
func (s *Sequencer) Clock() float64 { return s.clock }

// Restore replaces the sequencer state, e.g. to resume a persisted run.
func (s *Sequencer) Restore(st State) error {
	if err := st.Validate(); err != nil {
		return err
	}
	s.state = st
	s.started = false
	return nil
}

// Tick reads the active axis, advances the state and issues the resulting
// commands to the actuator. The first tick after construction or Restore
// halts every axis before actuating, so only the active axis is ever free.
func (s *Sequencer) Tick(dt float64, d Direction) Outcome {
	in, ok := TickInput{Dt: dt, Direction: d}.sanitize(s.state)
	if !ok {
		s.log.Warn("invalid tick input",
			zap.Float64("dt", dt),
			zap.Int("direction", int(d)),
			zap.Float64("used_dt", in.Dt),
			zap.Stringer("used_direction", in.Direction))
	}
	side := ActiveSide(s.state, in.Direction)
	in.Progress = s.act.Progress(side)

	prev := s.state
	next, out := Step(s.state, in, s.params)
	s.state = next
	s.clock += in.Dt

	if !s.started {
		limb.Apply(s.act, limb.Halt()...)
		s.started = true
	}
	limb.Apply(s.act, out.Commands...)

	if out.Advanced() {
		t := Transition{
			Clock:     s.clock,
			Index:     prev.Index,
			From:      out.Completed,
			To:        out.Active,
			Reason:    out.Reason,
			Elapsed:   out.Elapsed,
			Direction: in.Direction,
		}
		s.logTransition(t, side, in.Progress)
		for _, o := range s.observers {
			o.OnTransition(t)
		}
	}
	return out
}

func (s *Sequencer) logTransition(t Transition, side limb.Side, progress float64) {
	fields := []zap.Field{
		zap.Stringer("phase", t.From),
		zap.Stringer("side", side),
		zap.Float64("elapsed", t.Elapsed),
		zap.Float64("progress", progress),
		zap.Stringer("next", t.To),
	}
	if t.Reason == Timeout {
		s.log.Warn("phase timed out", fields...)
		return
	}
	s.log.Debug("phase finished", fields...)
}
