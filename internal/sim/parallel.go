package sim

import (
	"context"
	"sync"
)

// Builder constructs an independent simulator for one ensemble member.
type Builder func(idx int) (*Simulator, Config, error)

// Ensemble runs independent walks concurrently. Each member gets its own
// body, actuator and sequencer from the builder.
type Ensemble struct {
	build   Builder
	numRuns int
}

func NewEnsemble(build Builder, numRuns int) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s, cfg, err := e.build(idx)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
