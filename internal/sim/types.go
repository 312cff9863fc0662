package sim

import (
	"github.com/san-kum/critter/internal/gait"
	"github.com/san-kum/critter/internal/limb"
)

// Sample is the observable state of the critter after one tick.
type Sample struct {
	Time     float64                `json:"time"`
	Progress [limb.NumSides]float64 `json:"progress"`
	Phase    gait.MoveState         `json:"phase"`
	Index    int                    `json:"index"`
	Reason   gait.Reason            `json:"reason"`
	Driven   int                    `json:"driven"`
	BodyX    float64                `json:"body_x"`
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Config struct {
	Dt        float64
	Duration  float64
	Direction gait.Direction
	// RecordEvery keeps one sample in every RecordEvery ticks. Metrics and
	// observers still see every tick.
	RecordEvery int
}

func DefaultConfig() Config {
	return Config{
		Dt:          0.02,
		Duration:    30.0,
		Direction:   gait.Right,
		RecordEvery: 1,
	}
}

type Result struct {
	Samples      []Sample
	Transitions  []gait.Transition
	Metrics      map[string]float64
	TicksTaken   int
	Displacement float64
	Final        gait.State
}

// Completions counts finished phases by reason.
func (r *Result) Completions() map[gait.Reason]int {
	out := make(map[gait.Reason]int)
	for _, t := range r.Transitions {
		out[t.Reason]++
	}
	return out
}
