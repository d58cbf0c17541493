// Package debug provides debug visualization utilities.
package debug

// GridVertex is one endpoint of a grid line.
type GridVertex struct {
	X, Y, Z float32 // Position
	R, G, B float32 // Color
}

// Grid defaults match the demo scene.
const (
	DefaultGridSlices  = 10
	DefaultGridSpacing = 1.0
)

var (
	axisColor = [3]float32{0.5, 0.5, 0.5}
	lineColor = [3]float32{0.75, 0.75, 0.75}
)

// GridLines generates a square grid on the y = 0 plane centered at the
// origin, slices cells wide, as pairs of line endpoints. The two lines through
// the origin use a darker color. Odd slice counts are rounded down to even.
func GridLines(slices int, spacing float32) []GridVertex {
	half := slices / 2
	if half <= 0 || spacing <= 0 {
		return nil
	}

	extent := float32(half) * spacing
	vertices := make([]GridVertex, 0, (2*half+1)*4)

	for i := -half; i <= half; i++ {
		c := lineColor
		if i == 0 {
			c = axisColor
		}
		offset := float32(i) * spacing

		// Line parallel to Z
		vertices = append(vertices,
			GridVertex{offset, 0, -extent, c[0], c[1], c[2]},
			GridVertex{offset, 0, extent, c[0], c[1], c[2]},
		)
		// Line parallel to X
		vertices = append(vertices,
			GridVertex{-extent, 0, offset, c[0], c[1], c[2]},
			GridVertex{extent, 0, offset, c[0], c[1], c[2]},
		)
	}
	return vertices
}

// GridVertexCount returns len(GridLines(slices, spacing)) for a positive spacing.
func GridVertexCount(slices int) int {
	half := slices / 2
	if half <= 0 {
		return 0
	}
	return (2*half + 1) * 4
}
