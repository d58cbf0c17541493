// Package particle simulates pools of short-lived particles driven by emitters.
//
// An Emitter owns a fixed pool of Particle slots allocated once. Each Update
// ages active slots and reuses inactive ones for new spawns, so a running
// emitter never allocates. A System groups emitters and draws them in
// registration order through a Renderer.
package particle

import (
	"math/rand/v2"

	"github.com/Faultbox/pyre/pkg/math"
)

const (
	// bounceDamping scales vertical velocity when a particle hits the ground.
	bounceDamping = -0.5
	// scaleFalloff shrinks particles with distance from the origin.
	scaleFalloff = 0.1
)

// Particle is one pool slot. The zero value is inactive.
type Particle struct {
	origin               math.Vec3
	position             math.Vec3
	velocity             math.Vec3
	externalAcceleration math.Vec3
	originAcceleration   float32
	age                  float32
	ttl                  float32
	scale                float32
	active               bool
}

// Init activates the slot with freshly sampled state.
// cfg.Direction must already be normalized.
func (p *Particle) Init(cfg *EmitterConfig, rng *rand.Rand) {
	p.age = 0
	p.origin = cfg.Origin

	yaw := math.Radians(cfg.VelocityAngle.Sample(rng))
	pitch := math.Radians(cfg.DirectionAngle.Sample(rng))
	dir := cfg.Direction.RotateY(yaw).RotateX(pitch)

	p.velocity = dir.Scale(cfg.Velocity.Sample(rng))
	p.position = cfg.Origin.Add(dir.Scale(cfg.Offset.Sample(rng)))
	p.originAcceleration = cfg.OriginAcceleration.Sample(rng)
	p.ttl = cfg.Age.Sample(rng)
	p.externalAcceleration = cfg.ExternalAcceleration
	p.scale = 1
	p.active = true
}

// Update advances the particle by dt seconds. Attraction and scale use the
// emitter's current origin, not the one the particle was born at.
func (p *Particle) Update(dt float32, cfg *EmitterConfig) {
	if !p.active {
		return
	}

	p.age += dt
	if p.IsExpired() {
		p.active = false
		return
	}

	p.velocity.Y -= cfg.Gravity * dt

	toOrigin := cfg.Origin.Sub(p.position).Normalize()
	p.velocity = p.velocity.Add(toOrigin.Scale(p.originAcceleration * dt))
	p.velocity = p.velocity.Add(p.externalAcceleration.Scale(dt))

	p.position = p.position.Add(p.velocity.Scale(dt))

	if cfg.Collision && p.position.Y <= 0 {
		p.position.Y = 0
		p.velocity.Y *= bounceDamping
	}

	p.scale = 1 / (p.position.Distance(cfg.Origin)*scaleFalloff + 1)
}

// IsExpired reports whether the particle has outlived its ttl.
func (p *Particle) IsExpired() bool {
	return p.age > p.ttl
}

// Active reports whether the slot holds a live particle.
func (p *Particle) Active() bool { return p.active }

// Position returns the current position.
func (p *Particle) Position() math.Vec3 { return p.position }

// Velocity returns the current velocity.
func (p *Particle) Velocity() math.Vec3 { return p.velocity }

// Origin returns the emitter origin at the time the particle was spawned.
func (p *Particle) Origin() math.Vec3 { return p.origin }

// Age returns seconds since spawn.
func (p *Particle) Age() float32 { return p.age }

// TTL returns the sampled lifetime.
func (p *Particle) TTL() float32 { return p.ttl }

// Scale returns the distance-based draw scale.
func (p *Particle) Scale() float32 { return p.scale }

// LifeFraction returns age/ttl clamped to [0, 1], or 0 when ttl <= 0.
func (p *Particle) LifeFraction() float32 {
	if p.ttl <= 0 {
		return 0
	}
	return min(max(p.age/p.ttl, 0), 1)
}
