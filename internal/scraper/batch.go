package scraper

import (
	"golang.org/x/sync/errgroup"
)

// BatchExecutor runs n independent tasks. Implementations must preserve per-item
// independent failure: one task's outcome never aborts the batch.
type BatchExecutor interface {
	Execute(n int, task func(i int))
}

// SequentialExecutor runs tasks one after another in a plain loop
type SequentialExecutor struct{}

// Execute runs every task in order
func (SequentialExecutor) Execute(n int, task func(i int)) {
	for i := 0; i < n; i++ {
		task(i)
	}
}

// PooledExecutor runs tasks on a bounded worker pool
type PooledExecutor struct {
	Workers int
}

// Execute runs tasks with at most Workers in flight at once
func (p PooledExecutor) Execute(n int, task func(i int)) {
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			task(i)
			return nil
		})
	}
	g.Wait()
}
