package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/san-kum/critter/internal/gait"
	"github.com/san-kum/critter/internal/sim"
)

// Prom exports gait activity as Prometheus metrics. It observes both the
// sequencer (phase completions) and the simulator (ticks).
//
// Metrics:
//   - critter_phase_completions_total{phase,reason}
//   - critter_phase_duration_seconds{phase}
//   - critter_ticks_total
//   - critter_body_x
type Prom struct {
	Completions *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Ticks       prometheus.Counter
	BodyX       prometheus.Gauge
}

// NewProm registers the collectors on reg. Pass prometheus.DefaultRegisterer
// to expose them on the default /metrics handler.
func NewProm(reg prometheus.Registerer) *Prom {
	f := promauto.With(reg)
	return &Prom{
		Completions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "critter_phase_completions_total",
				Help: "Completed gait phases by phase and reason",
			},
			[]string{"phase", "reason"},
		),
		Duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "critter_phase_duration_seconds",
				Help:    "Simulated time spent in each gait phase",
				Buckets: prometheus.LinearBuckets(0.25, 0.25, 16), // 0.25s to 4s
			},
			[]string{"phase"},
		),
		Ticks: f.NewCounter(
			prometheus.CounterOpts{
				Name: "critter_ticks_total",
				Help: "Control ticks executed",
			},
		),
		BodyX: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "critter_body_x",
				Help: "Current body position along the ground",
			},
		),
	}
}

func (p *Prom) OnTransition(t gait.Transition) {
	phase := t.From.String()
	p.Completions.WithLabelValues(phase, t.Reason.String()).Inc()
	p.Duration.WithLabelValues(phase).Observe(t.Elapsed)
}

func (p *Prom) OnStep(s sim.Sample) {
	p.Ticks.Inc()
	p.BodyX.Set(s.BodyX)
}
