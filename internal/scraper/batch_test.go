package scraper

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialExecutorRunsInOrder(t *testing.T) {
	var order []int
	SequentialExecutor{}.Execute(5, func(i int) {
		order = append(order, i)
	})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestPooledExecutorRunsAllTasks(t *testing.T) {
	var ran int64
	PooledExecutor{Workers: 3}.Execute(20, func(i int) {
		atomic.AddInt64(&ran, 1)
	})
	assert.Equal(t, int64(20), ran)
}

func TestPooledExecutorBoundsConcurrency(t *testing.T) {
	var active, peak int64
	PooledExecutor{Workers: 2}.Execute(10, func(i int) {
		current := atomic.AddInt64(&active, 1)
		for {
			observed := atomic.LoadInt64(&peak)
			if current <= observed || atomic.CompareAndSwapInt64(&peak, observed, current) {
				break
			}
		}
		atomic.AddInt64(&active, -1)
	})
	assert.LessOrEqual(t, peak, int64(2))
}

func TestPooledExecutorZeroWorkers(t *testing.T) {
	var ran int64
	PooledExecutor{}.Execute(3, func(i int) {
		atomic.AddInt64(&ran, 1)
	})
	assert.Equal(t, int64(3), ran)
}
