package particle

import (
	"github.com/Faultbox/pyre/pkg/math"
)

// EmitterConfig describes how an emitter spawns, moves and tints particles.
// Angles are in degrees, durations in seconds, rates in particles per second.
type EmitterConfig struct {
	// Direction is the base emission direction. It is normalized by NewEmitter.
	Direction math.Vec3 `yaml:"direction"`
	// Velocity is the initial speed along the rotated direction.
	Velocity ScalarRange `yaml:"velocity"`
	// DirectionAngle rotates the direction about the lateral axis.
	DirectionAngle ScalarRange `yaml:"direction_angle"`
	// VelocityAngle rotates the direction about the up axis.
	VelocityAngle ScalarRange `yaml:"velocity_angle"`
	// Offset is the spawn distance from the origin along the direction.
	Offset ScalarRange `yaml:"offset"`
	// OriginAcceleration pulls particles toward the live emitter origin.
	OriginAcceleration ScalarRange `yaml:"origin_acceleration"`
	// Age is the lifetime of a particle.
	Age ScalarRange `yaml:"age"`
	// Burst is how many particles one Burst call spawns.
	Burst IntRange `yaml:"burst"`

	Capacity     int     `yaml:"capacity"`
	EmissionRate float32 `yaml:"emission_rate"`

	Origin               math.Vec3 `yaml:"origin"`
	ExternalAcceleration math.Vec3 `yaml:"external_acceleration"`

	StartColor Color     `yaml:"start_color"`
	EndColor   Color     `yaml:"end_color"`
	BlendMode  BlendMode `yaml:"blend_mode"`

	// Model is drawn for every particle. The emitter never modifies it.
	Model Model `yaml:"-"`

	Gravity   float32 `yaml:"gravity"`
	Collision bool    `yaml:"collision"`
}

// DefaultConfig returns a small upward fountain of white particles.
func DefaultConfig() EmitterConfig {
	return EmitterConfig{
		Direction:      math.Up,
		Velocity:       ScalarRange{Min: 0.5, Max: 1},
		DirectionAngle: ScalarRange{Min: -15, Max: 15},
		VelocityAngle:  ScalarRange{Min: 0, Max: 360},
		Age:            ScalarRange{Min: 1, Max: 2},
		Burst:          IntRange{Min: 10, Max: 20},
		Capacity:       100,
		EmissionRate:   20,
		StartColor:     White,
		EndColor:       Color{255, 255, 255, 0},
		BlendMode:      BlendAlpha,
	}
}
