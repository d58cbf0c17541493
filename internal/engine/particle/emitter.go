package particle

import (
	gomath "math"
	"math/rand/v2"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/pyre/internal/engine/parallel"
	"github.com/Faultbox/pyre/internal/logger"
	"github.com/Faultbox/pyre/pkg/math"
)

// Emitter spawns particles into a fixed pool and advances them every frame.
// An Emitter is not safe for concurrent use; Update fans out internally when
// a worker pool is attached.
type Emitter struct {
	name      string
	cfg       EmitterConfig
	particles []Particle
	rng       *rand.Rand
	pool      *parallel.Pool

	emitting bool
	// mustEmit accumulates fractional spawns across frames.
	mustEmit float64

	// Per-frame state shared by RunRange chunks.
	dt       float32
	spawning bool
	budget   atomic.Int64
	spawned  atomic.Int64
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithName labels the emitter in log output.
func WithName(name string) Option {
	return func(e *Emitter) { e.name = name }
}

// WithRand sets the generator used for serial updates and bursts.
func WithRand(rng *rand.Rand) Option {
	return func(e *Emitter) { e.rng = rng }
}

// WithSeed seeds a new PCG generator.
func WithSeed(seed uint64) Option {
	return func(e *Emitter) { e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithPool fans Update out across the pool's workers. Chunks sample from the
// pool's per-worker generators.
func WithPool(p *parallel.Pool) Option {
	return func(e *Emitter) { e.pool = p }
}

// NewEmitter allocates the pool and normalizes cfg.Direction.
// A negative capacity is treated as zero. The emitter starts stopped.
func NewEmitter(cfg EmitterConfig, opts ...Option) *Emitter {
	cfg.Direction = cfg.Direction.Normalize()
	if cfg.Capacity < 0 {
		cfg.Capacity = 0
	}

	e := &Emitter{
		cfg:       cfg,
		particles: make([]Particle, cfg.Capacity),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	logger.Debug("emitter created",
		zap.String("name", e.name),
		zap.Int("capacity", cfg.Capacity),
		zap.Float32("rate", cfg.EmissionRate),
		zap.Stringer("blend", cfg.BlendMode))
	return e
}

// Name returns the label set with WithName.
func (e *Emitter) Name() string { return e.name }

// Config returns a copy of the configuration, including the current origin.
func (e *Emitter) Config() EmitterConfig { return e.cfg }

// Capacity returns the pool size.
func (e *Emitter) Capacity() int { return len(e.particles) }

// SetOrigin moves the emitter. Live particles are attracted to, and scaled
// by distance from, the new origin from the next Update on.
func (e *Emitter) SetOrigin(p math.Vec3) { e.cfg.Origin = p }

// Origin returns the current origin.
func (e *Emitter) Origin() math.Vec3 { return e.cfg.Origin }

// Start enables continuous emission.
func (e *Emitter) Start() {
	e.emitting = true
	logger.Debug("emitter started", zap.String("name", e.name))
}

// Stop disables continuous emission. Live particles keep updating.
func (e *Emitter) Stop() {
	e.emitting = false
	logger.Debug("emitter stopped", zap.String("name", e.name))
}

// IsEmitting reports whether continuous emission is enabled.
func (e *Emitter) IsEmitting() bool { return e.emitting }

// Burst spawns a sampled number of particles into the lowest free slots,
// regardless of the emitting state. It returns how many were spawned.
func (e *Emitter) Burst() int {
	amount := e.cfg.Burst.Sample(e.rng)
	spawned := 0
	for i := range e.particles {
		if spawned >= amount {
			break
		}
		p := &e.particles[i]
		if p.active {
			continue
		}
		p.Init(&e.cfg, e.rng)
		spawned++
	}

	logger.Debug("emitter burst",
		zap.String("name", e.name),
		zap.Int("requested", amount),
		zap.Int("spawned", spawned))
	return spawned
}

// Update advances every live particle by dt seconds, spawns new ones from the
// emission accumulator and returns the number of particles processed as live
// this frame.
func (e *Emitter) Update(dt float32) int {
	budget := int64(0)
	if e.emitting {
		e.mustEmit += float64(dt) * float64(e.cfg.EmissionRate)
		if e.mustEmit > 0 {
			budget = int64(gomath.Floor(e.mustEmit))
		}
	}
	budget = min(budget, int64(len(e.particles)))

	e.dt = dt
	e.spawning = budget > 0
	e.budget.Store(budget)
	e.spawned.Store(0)

	var active int
	if e.pool != nil {
		active = e.pool.For(len(e.particles), e)
	} else {
		active = e.RunRange(0, 0, len(e.particles))
	}

	if e.emitting {
		e.mustEmit -= float64(e.spawned.Load())
	}
	return active
}

// RunRange updates slots [lo, hi). It implements parallel.Task and is only
// meaningful while Update is running.
func (e *Emitter) RunRange(worker, lo, hi int) int {
	rng := e.rng
	if e.pool != nil {
		rng = e.pool.Rand(worker)
	}

	count := 0
	for i := lo; i < hi; i++ {
		p := &e.particles[i]
		if p.active {
			p.Update(e.dt, &e.cfg)
			count++
			continue
		}
		if !e.spawning || !e.claimSpawn() {
			continue
		}
		p.Init(&e.cfg, rng)
		p.Update(e.dt, &e.cfg)
		count++
	}
	return count
}

// claimSpawn takes one unit of this frame's spawn budget.
func (e *Emitter) claimSpawn() bool {
	if e.budget.Load() <= 0 {
		return false
	}
	if e.budget.Add(-1) < 0 {
		return false
	}
	e.spawned.Add(1)
	return true
}

// Draw submits every live particle inside the emitter's blend mode.
func (e *Emitter) Draw(r Renderer) {
	r.BeginBlendMode(e.cfg.BlendMode)
	for i := range e.particles {
		p := &e.particles[i]
		if !p.active {
			continue
		}
		tint := LinearFade(e.cfg.StartColor, e.cfg.EndColor, p.LifeFraction())
		r.DrawModel(e.cfg.Model, math.TranslateScale(p.position, p.scale), tint)
	}
	r.EndBlendMode()
}

// ActiveCount scans the pool for live particles.
func (e *Emitter) ActiveCount() int {
	n := 0
	for i := range e.particles {
		if e.particles[i].active {
			n++
		}
	}
	return n
}

// Particles exposes the pool for read-only inspection.
func (e *Emitter) Particles() []Particle { return e.particles }
