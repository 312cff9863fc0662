package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/critter/internal/gait"
	"github.com/san-kum/critter/internal/limb"
	"github.com/san-kum/critter/internal/physics"
)

// Simulator runs the closed loop: once per tick the sequencer reads and
// commands the actuators, then the substrate integrates.
type Simulator struct {
	body      *physics.Body
	act       limb.Actuator
	seq       *gait.Sequencer
	metrics   []Metric
	observers []Observer

	transitions []gait.Transition
}

func New(body *physics.Body, act limb.Actuator, seq *gait.Sequencer) *Simulator {
	s := &Simulator{
		body:      body,
		act:       act,
		seq:       seq,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	seq.AddObserver(s)
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Sequencer() *gait.Sequencer { return s.seq }
func (s *Simulator) Body() *physics.Body        { return s.body }

func (s *Simulator) OnTransition(t gait.Transition) {
	s.transitions = append(s.transitions, t)
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	every := cfg.RecordEvery
	if every < 1 {
		every = 1
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		Samples: make([]Sample, 0, steps/every+1),
		Metrics: make(map[string]float64),
	}
	s.transitions = make([]gait.Transition, 0)

	for _, m := range s.metrics {
		m.Reset()
	}

	x0 := s.body.X
	t := 0.0
	result.Samples = append(result.Samples, s.Snapshot(t, gait.Outcome{Active: s.seq.State().Phase()}))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, x0)
			return result, ctx.Err()
		default:
		}

		out := s.Step(cfg.Dt, cfg.Direction)
		t += cfg.Dt
		result.TicksTaken++

		smp := s.Snapshot(t, out)
		for _, m := range s.metrics {
			m.Observe(smp)
		}
		for _, obs := range s.observers {
			obs.OnStep(smp)
		}
		if (i+1)%every == 0 {
			result.Samples = append(result.Samples, smp)
		}
	}

	s.finish(result, x0)
	return result, nil
}

// Step runs a single tick without recording. Interactive front ends drive
// the loop with it.
func (s *Simulator) Step(dt float64, d gait.Direction) gait.Outcome {
	out := s.seq.Tick(dt, d)
	s.body.Step(dt)
	return out
}

func (s *Simulator) finish(result *Result, x0 float64) {
	result.Transitions = s.transitions
	result.Displacement = s.body.X - x0
	result.Final = s.seq.State()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Snapshot captures the observable state at time t after a tick with the
// given outcome.
func (s *Simulator) Snapshot(t float64, out gait.Outcome) Sample {
	smp := Sample{
		Time:   t,
		Phase:  out.Active,
		Index:  s.seq.State().Index,
		Reason: out.Reason,
		BodyX:  s.body.X,
	}
	for _, side := range limb.Sides() {
		smp.Progress[side] = s.body.NativeProgress(side)
		if s.body.Joint(side).EffectiveSpeed() != 0 {
			smp.Driven++
		}
	}
	return smp
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if !cfg.Direction.Valid() {
		return fmt.Errorf("unknown direction %d", int(cfg.Direction))
	}
	return nil
}
