package particle

import (
	"go.uber.org/zap"

	"github.com/Faultbox/pyre/internal/engine/parallel"
	"github.com/Faultbox/pyre/internal/logger"
	"github.com/Faultbox/pyre/pkg/math"
)

// System owns a set of emitters and drives them as one effect.
type System struct {
	emitters []*Emitter
	pool     *parallel.Pool
}

// NewSystem returns an empty system. A non-nil pool is attached to every
// registered emitter.
func NewSystem(pool *parallel.Pool) *System {
	return &System{pool: pool}
}

// Register takes ownership of e. Emitters are drawn in registration order.
func (s *System) Register(e *Emitter) {
	if s.pool != nil {
		e.pool = s.pool
	}
	s.emitters = append(s.emitters, e)
	logger.Info("emitter registered",
		zap.String("name", e.name),
		zap.Int("index", len(s.emitters)-1),
		zap.Int("capacity", e.Capacity()))
}

// Emitters returns the registered emitters in draw order.
func (s *System) Emitters() []*Emitter { return s.emitters }

// Len returns the number of registered emitters.
func (s *System) Len() int { return len(s.emitters) }

// Capacity returns the total pool size across emitters.
func (s *System) Capacity() int {
	n := 0
	for _, e := range s.emitters {
		n += e.Capacity()
	}
	return n
}

// SetOrigin moves every emitter.
func (s *System) SetOrigin(p math.Vec3) {
	for _, e := range s.emitters {
		e.SetOrigin(p)
	}
}

// Start enables emission on every emitter.
func (s *System) Start() {
	for _, e := range s.emitters {
		e.Start()
	}
}

// Stop disables emission on every emitter.
func (s *System) Stop() {
	for _, e := range s.emitters {
		e.Stop()
	}
}

// IsEmitting reports whether any emitter is emitting.
func (s *System) IsEmitting() bool {
	for _, e := range s.emitters {
		if e.IsEmitting() {
			return true
		}
	}
	return false
}

// Burst bursts every emitter and returns the total spawned.
func (s *System) Burst() int {
	n := 0
	for _, e := range s.emitters {
		n += e.Burst()
	}
	return n
}

// Update advances every emitter and returns the summed active count.
// Emitters run one after another; each one spreads its pool over the workers.
func (s *System) Update(dt float32) int {
	n := 0
	for _, e := range s.emitters {
		n += e.Update(dt)
	}
	return n
}

// Draw draws every emitter in registration order.
func (s *System) Draw(r Renderer) {
	for _, e := range s.emitters {
		e.Draw(r)
	}
}
