package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/critter/internal/config"
	"github.com/san-kum/critter/internal/experiment"
	"github.com/san-kum/critter/internal/sim"
)

var ErrNoCandidates = errors.New("no valid parameter combination")

// Tunable parameters, keyed by their config name.
var setters = map[string]func(c *config.Config, v float64){
	"max_lift_time":             func(c *config.Config, v float64) { c.Gait.MaxLiftTime = v },
	"max_drop_time":             func(c *config.Config, v float64) { c.Gait.MaxDropTime = v },
	"max_forward_time":          func(c *config.Config, v float64) { c.Gait.MaxForwardTime = v },
	"max_back_time":             func(c *config.Config, v float64) { c.Gait.MaxBackTime = v },
	"vertical_halt_threshold":   func(c *config.Config, v float64) { c.Gait.VerticalHaltThreshold = v },
	"horizontal_halt_threshold": func(c *config.Config, v float64) { c.Gait.HorizontalHaltThreshold = v },
	"target_speed":              func(c *config.Config, v float64) { c.Actuator.TargetSpeed = v },
}

// GridSearch evaluates every combination of the given parameter values and
// keeps the one with the highest metric. Combinations run concurrently.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("got %d params but %d ranges", len(params), len(ranges))
	}
	for _, p := range params {
		if _, ok := setters[p]; !ok {
			return nil, fmt.Errorf("unknown tunable parameter: %s", p)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs base with every combination and returns the combination that
// maximizes metricName. Invalid combinations are skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (map[string]float64, float64, error) {
	var combos []map[string]float64
	g.collect(0, make(map[string]float64), &combos)

	cfgs := make([]*config.Config, 0, len(combos))
	kept := make([]map[string]float64, 0, len(combos))
	for _, params := range combos {
		cfg := base.Clone()
		for name, v := range params {
			setters[name](cfg, v)
		}
		if err := cfg.Validate(); err != nil {
			continue
		}
		cfgs = append(cfgs, cfg)
		kept = append(kept, params)
	}
	if len(cfgs) == 0 {
		return nil, 0, ErrNoCandidates
	}

	results, err := sim.NewEnsemble(experiment.Builder(cfgs), len(cfgs)).Run(ctx)
	if err != nil {
		return nil, 0, err
	}

	best := math.Inf(-1)
	var bestParams map[string]float64
	for i, r := range results {
		val, ok := r.Metrics[metricName]
		if !ok {
			return nil, 0, fmt.Errorf("unknown metric: %s", metricName)
		}
		if val > best {
			best = val
			bestParams = kept[i]
		}
	}
	return bestParams, best, nil
}

func (g *GridSearch) collect(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.collect(depth+1, newParams, out)
	}
}
