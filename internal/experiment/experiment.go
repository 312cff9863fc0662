package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/critter/internal/actuator"
	"github.com/san-kum/critter/internal/config"
	"github.com/san-kum/critter/internal/gait"
	"github.com/san-kum/critter/internal/physics"
	"github.com/san-kum/critter/internal/sim"
)

// Experiment is one fully wired critter: body, actuator head, gait
// sequencer and the simulator that steps them.
type Experiment struct {
	cfg       *config.Config
	body      *physics.Body
	head      *actuator.Head
	seq       *gait.Sequencer
	simulator *sim.Simulator
}

// New builds the critter described by cfg and registers the default
// metrics. log may be nil.
func New(cfg *config.Config, log *zap.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	body, err := physics.NewBody(cfg.Physics())
	if err != nil {
		return nil, fmt.Errorf("build body: %w", err)
	}
	head, err := actuator.New(body, cfg.Actuator)
	if err != nil {
		return nil, fmt.Errorf("build actuator: %w", err)
	}
	seq, err := gait.NewSequencer(head, cfg.Gait)
	if err != nil {
		return nil, fmt.Errorf("build sequencer: %w", err)
	}
	if log != nil {
		seq.SetLogger(log.Named("gait"))
	}

	e := &Experiment{
		cfg:       cfg,
		body:      body,
		head:      head,
		seq:       seq,
		simulator: sim.New(body, head, seq),
	}
	for _, m := range NewRegistry().DefaultMetrics() {
		e.simulator.AddMetric(m)
	}
	return e, nil
}

// Observe attaches o to the sequencer's transitions and, when o also
// implements sim.Observer, to every simulated tick.
func (e *Experiment) Observe(o gait.Observer) {
	e.seq.AddObserver(o)
	if so, ok := o.(sim.Observer); ok {
		e.simulator.AddObserver(so)
	}
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:          e.cfg.Dt,
		Duration:    e.cfg.Duration,
		Direction:   e.cfg.Direction,
		RecordEvery: e.cfg.RecordEvery,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.SimConfig())
}

func (e *Experiment) Config() *config.Config       { return e.cfg }
func (e *Experiment) Body() *physics.Body          { return e.body }
func (e *Experiment) Head() *actuator.Head         { return e.head }
func (e *Experiment) Sequencer() *gait.Sequencer   { return e.seq }
func (e *Experiment) GetSimulator() *sim.Simulator { return e.simulator }

// Builder adapts a list of configs to an ensemble builder.
func Builder(cfgs []*config.Config) sim.Builder {
	return func(idx int) (*sim.Simulator, sim.Config, error) {
		e, err := New(cfgs[idx], nil)
		if err != nil {
			return nil, sim.Config{}, err
		}
		return e.GetSimulator(), e.SimConfig(), nil
	}
}
