// Package picking casts rays from screen positions into the scene.
package picking

import (
	gomath "math"

	"github.com/Faultbox/pyre/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NDC converts pixel (or cell) coordinates with a top-left origin to
// normalized device coordinates in [-1, 1], y up.
func NDC(screenX, screenY, viewportW, viewportH float32) (x, y float32) {
	if viewportW <= 0 || viewportH <= 0 {
		return 0, 0
	}
	return 2*screenX/viewportW - 1, 1 - 2*screenY/viewportH
}

// PerspectiveRay returns the ray through a point in normalized device
// coordinates for a camera at eye looking at target with a vertical field
// of view fovY (degrees) and the given aspect ratio.
func PerspectiveRay(ndcX, ndcY float32, eye, target math.Vec3, fovY, aspect float32) Ray {
	forward := target.Sub(eye).Normalize()
	right := forward.Cross(math.Up).Normalize()
	up := right.Cross(forward)

	tanHalf := float32(gomath.Tan(float64(math.Radians(fovY)) / 2))
	dir := forward.
		Add(right.Scale(ndcX * tanHalf * aspect)).
		Add(up.Scale(ndcY * tanHalf))

	return Ray{Origin: eye, Direction: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// ok is false when the ray is parallel to the plane or points away from it.
func (r Ray) IntersectPlaneY(planeY float32) (p math.Vec3, ok bool) {
	// Origin.Y + t * Direction.Y = planeY
	if gomath.Abs(float64(r.Direction.Y)) < 0.001 {
		return math.Vec3{}, false
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false
	}

	p = r.At(t)
	p.Y = planeY
	return p, true
}
