package experiment

import (
	"context"
	"sync"
)

// Ensemble replays one script under consecutive particle seeds.
type Ensemble struct {
	script    Script
	numRuns   int
	seedStart uint64
}

func NewEnsemble(script Script, numRuns int, seedStart uint64) *Ensemble {
	return &Ensemble{script: script, numRuns: numRuns, seedStart: seedStart}
}

// Run plays every seed concurrently. Traces come back in seed order; the
// first error wins.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Trace, error) {
	traces := make([]*Trace, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + uint64(idx)
			traces[idx], errs[idx] = Run(ctx, e.script, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return traces, nil
}
