package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/critter/internal/actuator"
	"github.com/san-kum/critter/internal/metrics"
	"github.com/san-kum/critter/internal/sim"
)

type Registry struct {
	locks   map[string]string
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		locks:   make(map[string]string),
		metrics: make(map[string]func() sim.Metric),
	}

	r.locks[actuator.StrategyFixed] = "disable the slider and engage the hold constraint"
	r.locks[actuator.StrategyLimits] = "squeeze the travel limits around the current position"

	r.metrics["timeout_ratio"] = func() sim.Metric { return metrics.NewTimeoutRatio() }
	r.metrics["cycles"] = func() sim.Metric { return metrics.NewCycles() }
	r.metrics["drive_duty"] = func() sim.Metric { return metrics.NewDriveDuty() }
	r.metrics["displacement"] = func() sim.Metric { return metrics.NewDisplacement() }

	return r
}

func (r *Registry) DescribeLock(name string) (string, error) {
	desc, ok := r.locks[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", actuator.ErrUnknownStrategy, name)
	}
	return desc, nil
}

func (r *Registry) ListLockStrategies() []string {
	return sortedKeys(r.locks)
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	out := make([]sim.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
