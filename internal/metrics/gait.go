package metrics

import (
	"github.com/san-kum/critter/internal/gait"
	"github.com/san-kum/critter/internal/sim"
)

// TimeoutRatio is the fraction of completed phases that ended because their
// time budget ran out rather than by reaching the halt threshold.
type TimeoutRatio struct {
	name      string
	timeouts  int
	completed int
}

func NewTimeoutRatio() *TimeoutRatio {
	return &TimeoutRatio{name: "timeout_ratio"}
}

func (m *TimeoutRatio) Name() string { return m.name }

func (m *TimeoutRatio) Observe(s sim.Sample) {
	switch s.Reason {
	case gait.Timeout:
		m.timeouts++
		m.completed++
	case gait.Threshold:
		m.completed++
	}
}

func (m *TimeoutRatio) Value() float64 {
	if m.completed == 0 {
		return 0
	}
	return float64(m.timeouts) / float64(m.completed)
}

func (m *TimeoutRatio) Reset() {
	m.timeouts = 0
	m.completed = 0
}

// Cycles counts full passes through the eight-phase order.
type Cycles struct {
	name  string
	count int
}

func NewCycles() *Cycles {
	return &Cycles{name: "cycles"}
}

func (m *Cycles) Name() string { return m.name }

func (m *Cycles) Observe(s sim.Sample) {
	if s.Reason != gait.None && s.Index == 0 {
		m.count++
	}
}

func (m *Cycles) Value() float64 { return float64(m.count) }

func (m *Cycles) Reset() { m.count = 0 }

type DriveDuty struct {
	name    string
	driven  int
	samples int
}

func NewDriveDuty() *DriveDuty {
	return &DriveDuty{name: "drive_duty"}
}

func (m *DriveDuty) Name() string { return m.name }

func (m *DriveDuty) Observe(s sim.Sample) {
	m.samples++
	if s.Driven > 0 {
		m.driven++
	}
}

func (m *DriveDuty) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.driven) / float64(m.samples)
}

func (m *DriveDuty) Reset() {
	m.driven = 0
	m.samples = 0
}

// Displacement tracks how far the body moved between the first and the
// latest observed sample.
type Displacement struct {
	name    string
	start   float64
	current float64
	samples int
}

func NewDisplacement() *Displacement {
	return &Displacement{name: "displacement"}
}

func (m *Displacement) Name() string { return m.name }

func (m *Displacement) Observe(s sim.Sample) {
	if m.samples == 0 {
		m.start = s.BodyX
	}
	m.current = s.BodyX
	m.samples++
}

func (m *Displacement) Value() float64 { return m.current - m.start }

func (m *Displacement) Reset() {
	m.start = 0
	m.current = 0
	m.samples = 0
}
