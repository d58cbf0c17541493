// Package parallel provides a persistent worker pool for chunked parallel-for
// loops over index ranges.
//
// Every chunk gets its own random generator and its own result slot. Partial
// results are summed after all chunks finish, so tasks never share a counter.
package parallel

import (
	"math/rand/v2"
	"runtime"
	"sync"
)

// Task processes the half-open index range [lo, hi) and returns a partial
// result. worker identifies the chunk and is stable for the duration of the
// call, so it can index per-worker state such as Pool.Rand.
type Task interface {
	RunRange(worker, lo, hi int) int
}

// TaskFunc adapts a function to Task.
type TaskFunc func(worker, lo, hi int) int

// RunRange calls f.
func (f TaskFunc) RunRange(worker, lo, hi int) int {
	return f(worker, lo, hi)
}

type job struct {
	task   Task
	worker int
	lo, hi int
}

// slot is padded to its own cache line so workers don't false-share results.
type slot struct {
	n int
	_ [56]byte
}

// Pool runs Tasks across a fixed set of goroutines.
type Pool struct {
	mu      sync.Mutex
	workers int
	jobs    chan job
	wg      sync.WaitGroup
	results []slot
	rngs    []*rand.Rand
	closed  bool
}

// New starts a pool with the given number of workers. workers <= 0 uses
// GOMAXPROCS. seed derives one generator per worker.
func New(workers int, seed uint64) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		workers: workers,
		jobs:    make(chan job, workers),
		results: make([]slot, workers),
		rngs:    make([]*rand.Rand, workers),
	}
	for i := range p.rngs {
		p.rngs[i] = rand.New(rand.NewPCG(seed, uint64(i)+1))
	}
	// Chunk 0 runs on the calling goroutine.
	for i := 1; i < workers; i++ {
		go p.loop()
	}
	return p
}

func (p *Pool) loop() {
	for j := range p.jobs {
		p.results[j.worker].n = j.task.RunRange(j.worker, j.lo, j.hi)
		p.wg.Done()
	}
}

// Workers returns the number of chunks a For call is split into at most.
func (p *Pool) Workers() int {
	return p.workers
}

// Rand returns the generator owned by a worker. Only the task running as that
// worker may use it during a For call.
func (p *Pool) Rand(worker int) *rand.Rand {
	return p.rngs[worker]
}

// For splits [0, n) into contiguous chunks, runs task on each and returns the
// sum of the partial results. Calls are serialized; a task must not call For
// on the same pool.
func (p *Pool) For(n int, task Task) int {
	if n <= 0 {
		return 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	chunks := min(p.workers, n)
	if chunks == 1 || p.closed {
		return task.RunRange(0, 0, n)
	}

	size := (n + chunks - 1) / chunks
	p.wg.Add(chunks - 1)
	for w := 1; w < chunks; w++ {
		lo := w * size
		hi := min(lo+size, n)
		if lo >= hi {
			p.results[w].n = 0
			p.wg.Done()
			continue
		}
		p.jobs <- job{task: task, worker: w, lo: lo, hi: hi}
	}
	total := task.RunRange(0, 0, min(size, n))
	p.wg.Wait()

	for w := 1; w < chunks; w++ {
		total += p.results[w].n
	}
	return total
}

// Close stops the worker goroutines. For keeps working afterwards, serially.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.jobs)
}
