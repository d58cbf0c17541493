// Package mesh builds the procedural meshes particles are drawn with.
package mesh

import (
	"fmt"
	"math"
)

// Shape names accepted in Spec.Shape.
const (
	ShapePlane  = "plane"
	ShapeSphere = "sphere"
	ShapeCube   = "cube"
)

// Vertex is a mesh vertex with position and normal.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// VertexStride is the size of a Vertex in bytes.
const VertexStride = 6 * 4

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Mesh holds indexed triangles ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Spec describes a procedural mesh in preset files.
type Spec struct {
	Shape string  `yaml:"shape"`
	Size  float32 `yaml:"size"`
	// Segments sets sphere rings and slices. 0 uses DefaultSegments.
	Segments int `yaml:"segments,omitempty"`
}

// DefaultSegments is the sphere tessellation used when Spec.Segments is 0.
const DefaultSegments = 16

// Validate checks the spec without building it.
func (s Spec) Validate() error {
	switch s.Shape {
	case ShapePlane, ShapeSphere, ShapeCube:
	default:
		return fmt.Errorf("unknown mesh shape %q", s.Shape)
	}
	if s.Size <= 0 {
		return fmt.Errorf("%s mesh size must be positive, got %g", s.Shape, s.Size)
	}
	if s.Segments < 0 || (s.Segments > 0 && s.Segments < 3) {
		return fmt.Errorf("%s mesh needs at least 3 segments, got %d", s.Shape, s.Segments)
	}
	return nil
}

// String formats the spec for logs.
func (s Spec) String() string {
	if s.Shape == ShapeSphere {
		return fmt.Sprintf("%s(%g, %d)", s.Shape, s.Size, s.segments())
	}
	return fmt.Sprintf("%s(%g)", s.Shape, s.Size)
}

func (s Spec) segments() int {
	if s.Segments == 0 {
		return DefaultSegments
	}
	return s.Segments
}

// Generate builds the mesh described by spec.
func Generate(spec Spec) (*Mesh, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	switch spec.Shape {
	case ShapePlane:
		return Plane(spec.Size), nil
	case ShapeSphere:
		n := spec.segments()
		return Sphere(spec.Size, n, n), nil
	default:
		return Cube(spec.Size), nil
	}
}

// Plane returns a size x size quad on the XZ plane facing +Y, centered at the origin.
func Plane(size float32) *Mesh {
	h := size / 2
	up := [3]float32{0, 1, 0}
	return withBounds(&Mesh{
		Vertices: []Vertex{
			{Position: [3]float32{-h, 0, -h}, Normal: up},
			{Position: [3]float32{-h, 0, h}, Normal: up},
			{Position: [3]float32{h, 0, h}, Normal: up},
			{Position: [3]float32{h, 0, -h}, Normal: up},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	})
}

// Sphere returns a UV sphere. rings counts latitude bands, slices longitude bands.
func Sphere(radius float32, rings, slices int) *Mesh {
	rings = max(rings, 3)
	slices = max(slices, 3)

	m := &Mesh{
		Vertices: make([]Vertex, 0, (rings+1)*(slices+1)),
		Indices:  make([]uint32, 0, rings*slices*6),
	}
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		sp, cp := math.Sincos(phi)
		for s := 0; s <= slices; s++ {
			theta := 2 * math.Pi * float64(s) / float64(slices)
			st, ct := math.Sincos(theta)
			n := [3]float32{float32(sp * ct), float32(cp), float32(sp * st)}
			m.Vertices = append(m.Vertices, Vertex{
				Position: [3]float32{n[0] * radius, n[1] * radius, n[2] * radius},
				Normal:   n,
			})
		}
	}

	row := uint32(slices + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < slices; s++ {
			a := uint32(r)*row + uint32(s)
			b := a + row
			m.Indices = append(m.Indices, a, a+1, b, b, a+1, b+1)
		}
	}
	return withBounds(m)
}

// Cube returns an axis-aligned cube with per-face normals, centered at the origin.
func Cube(size float32) *Mesh {
	h := size / 2
	faces := [6]struct {
		normal [3]float32
		u, v   [3]float32
	}{
		{[3]float32{1, 0, 0}, [3]float32{0, 0, -1}, [3]float32{0, 1, 0}},
		{[3]float32{-1, 0, 0}, [3]float32{0, 0, 1}, [3]float32{0, 1, 0}},
		{[3]float32{0, 1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, -1}},
		{[3]float32{0, -1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, 1}},
		{[3]float32{0, 0, 1}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}},
		{[3]float32{0, 0, -1}, [3]float32{-1, 0, 0}, [3]float32{0, 1, 0}},
	}

	m := &Mesh{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for _, corner := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			var p [3]float32
			for i := range p {
				p[i] = (f.normal[i] + corner[0]*f.u[i] + corner[1]*f.v[i]) * h
			}
			m.Vertices = append(m.Vertices, Vertex{Position: p, Normal: f.normal})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return withBounds(m)
}

// Interleaved returns vertex data as [px py pz nx ny nz] floats.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*6)
	for _, v := range m.Vertices {
		out = append(out, v.Position[0], v.Position[1], v.Position[2], v.Normal[0], v.Normal[1], v.Normal[2])
	}
	return out
}

// Triangles returns the number of triangles.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Radius returns the largest vertex distance from the origin.
func (m *Mesh) Radius() float32 {
	var r float32
	for _, v := range m.Vertices {
		p := v.Position
		r = max(r, float32(math.Sqrt(float64(p[0]*p[0]+p[1]*p[1]+p[2]*p[2]))))
	}
	return r
}

func withBounds(m *Mesh) *Mesh {
	b := Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
	for _, v := range m.Vertices {
		for i := 0; i < 3; i++ {
			b.Min[i] = min(b.Min[i], v.Position[i])
			b.Max[i] = max(b.Max[i], v.Position[i])
		}
	}
	m.Bounds = b
	return m
}
