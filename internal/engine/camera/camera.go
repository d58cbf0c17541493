// Package camera provides the orbit camera used to view particle effects.
package camera

import (
	gomath "math"

	"github.com/Faultbox/pyre/internal/engine/picking"
	"github.com/Faultbox/pyre/pkg/math"
)

// Clip planes for the demo scene.
const (
	NearPlane = 0.1
	FarPlane  = 1000.0
)

// OrbitCamera orbits around a target point.
type OrbitCamera struct {
	Target math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from target
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// FovY is the vertical field of view in degrees.
	FovY float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	home [3]float32
}

// NewOrbitCamera creates a camera at eye looking at target.
func NewOrbitCamera(eye, target math.Vec3, fovY float32) *OrbitCamera {
	c := &OrbitCamera{
		Target:          target,
		FovY:            fovY,
		MinDistance:     1,
		MaxDistance:     100,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}

	offset := eye.Sub(target)
	c.Distance = offset.Length()
	if c.Distance > 0 {
		c.RotationX = float32(gomath.Asin(float64(offset.Y / c.Distance)))
		c.RotationY = float32(gomath.Atan2(float64(offset.X), float64(offset.Z)))
	}
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
	c.home = [3]float32{c.Distance, c.RotationX, c.RotationY}
	return c
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sp, cp := gomath.Sincos(float64(c.RotationX))
	sy, cy := gomath.Sincos(float64(c.RotationY))

	return math.Vec3{
		X: c.Target.X + c.Distance*float32(cp*sy),
		Y: c.Target.Y + c.Distance*float32(sp),
		Z: c.Target.Z + c.Distance*float32(cp*cy),
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Target, math.Up)
}

// ProjectionMatrix returns the perspective projection for the given aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(math.Radians(c.FovY), aspect, NearPlane, FarPlane)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection(aspect float32) math.Mat4 {
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix())
}

// Ray returns the pick ray through a point in normalized device coordinates.
func (c *OrbitCamera) Ray(ndcX, ndcY, aspect float32) picking.Ray {
	if aspect <= 0 {
		aspect = 1
	}
	return picking.PerspectiveRay(ndcX, ndcY, c.Position(), c.Target, c.FovY, aspect)
}

// HandleDrag updates rotation based on mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta. Positive zooms in.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// Reset restores the placement the camera was created with.
func (c *OrbitCamera) Reset() {
	c.Distance, c.RotationX, c.RotationY = c.home[0], c.home[1], c.home[2]
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
