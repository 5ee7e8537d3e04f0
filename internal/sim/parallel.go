package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent replicas of a simulation, one goroutine each,
// seeding every replica's random stream from a distinct seed. Useful for
// averaging stochastic thermostat runs.
type Ensemble struct {
	build     func(seed int64) (*Simulator, error)
	numRuns   int
	seedStart int64
}

func NewEnsemble(build func(seed int64) (*Simulator, error), numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, steps int) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sim, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = sim.Run(ctx, steps)
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
