package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForCoversEveryIndexOnce(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		n       int
	}{
		{"single worker", 1, 100},
		{"even split", 4, 100},
		{"uneven split", 3, 10},
		{"more workers than items", 8, 5},
		{"one item", 4, 1},
		{"empty", 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.workers, 1)
			defer p.Close()

			hits := make([]int32, tt.n)
			got := p.For(tt.n, TaskFunc(func(_, lo, hi int) int {
				for i := lo; i < hi; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
				return hi - lo
			}))

			if got != tt.n {
				t.Errorf("For() = %d, want %d", got, tt.n)
			}
			for i, h := range hits {
				if h != 1 {
					t.Errorf("index %d visited %d times", i, h)
				}
			}
		})
	}
}

func TestForWorkerIDsAreDistinct(t *testing.T) {
	p := New(4, 1)
	defer p.Close()

	var seen [4]atomic.Int32
	p.For(400, TaskFunc(func(worker, lo, hi int) int {
		seen[worker].Add(1)
		return 0
	}))

	for w := range seen {
		if n := seen[w].Load(); n != 1 {
			t.Errorf("worker %d ran %d chunks, want 1", w, n)
		}
	}
}

func TestForRepeatedCalls(t *testing.T) {
	p := New(4, 1)
	defer p.Close()

	task := TaskFunc(func(_, lo, hi int) int { return hi - lo })
	for i := 0; i < 1000; i++ {
		if got := p.For(37, task); got != 37 {
			t.Fatalf("call %d: For() = %d, want 37", i, got)
		}
	}
}

func TestForAfterClose(t *testing.T) {
	p := New(4, 1)
	p.Close()
	p.Close()

	got := p.For(10, TaskFunc(func(worker, lo, hi int) int {
		if worker != 0 {
			t.Errorf("closed pool ran worker %d", worker)
		}
		return hi - lo
	}))
	if got != 10 {
		t.Errorf("For() after Close = %d, want 10", got)
	}
}

func TestRandPerWorker(t *testing.T) {
	p := New(3, 42)
	defer p.Close()

	if p.Workers() != 3 {
		t.Fatalf("Workers() = %d, want 3", p.Workers())
	}
	if p.Rand(0) == p.Rand(1) {
		t.Error("workers share a generator")
	}

	// Same seed, same streams.
	q := New(3, 42)
	defer q.Close()
	for w := 0; w < 3; w++ {
		if a, b := p.Rand(w).Uint64(), q.Rand(w).Uint64(); a != b {
			t.Errorf("worker %d: seeded streams differ: %d != %d", w, a, b)
		}
	}
}

func TestDefaultWorkers(t *testing.T) {
	p := New(0, 1)
	defer p.Close()
	if p.Workers() < 1 {
		t.Errorf("Workers() = %d, want >= 1", p.Workers())
	}
}

func TestForDoesNotAllocate(t *testing.T) {
	p := New(4, 1)
	defer p.Close()

	var task Task = TaskFunc(func(_, lo, hi int) int { return hi - lo })
	allocs := testing.AllocsPerRun(100, func() {
		p.For(1000, task)
	})
	if allocs != 0 {
		t.Errorf("For allocated %.1f times per call", allocs)
	}
}

func BenchmarkFor(b *testing.B) {
	p := New(0, 1)
	defer p.Close()

	data := make([]float32, 10000)
	task := TaskFunc(func(_, lo, hi int) int {
		for i := lo; i < hi; i++ {
			data[i] += 1
		}
		return hi - lo
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.For(len(data), task)
	}
}
