// Package spriterender draws particles as soft camera-facing discs with ebiten.
// Draws are batched per blend mode and flushed with one DrawTriangles call.
package spriterender

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Faultbox/pyre/internal/engine/debug"
	"github.com/Faultbox/pyre/internal/engine/mesh"
	"github.com/Faultbox/pyre/internal/engine/particle"
	"github.com/Faultbox/pyre/pkg/math"
)

// DiscSize is the edge of the generated sprite texture in pixels.
const DiscSize = 32

// maxQuads keeps a batch addressable with uint16 indices.
const maxQuads = (1 << 16) / 4

// Renderer implements particle.Renderer on an ebiten image.
type Renderer struct {
	target   *ebiten.Image
	width    float32
	height   float32
	viewProj math.Mat4
	disc     *ebiten.Image
	bg       color.NRGBA

	radii []float32
	grid  []debug.GridVertex

	mode  particle.BlendMode
	modes []particle.BlendMode

	vertices []ebiten.Vertex
	indices  []uint16
	op       ebiten.DrawTrianglesOptions
	drawn    int
}

var _ particle.Renderer = (*Renderer)(nil)

// New creates a renderer clearing to background.
func New(background particle.Color) *Renderer {
	disc := ebiten.NewImage(DiscSize, DiscSize)
	disc.WritePixels(DiscPixels(DiscSize))
	return &Renderer{
		disc:     disc,
		bg:       background.NRGBA(),
		viewProj: math.Identity(),
	}
}

// LoadModel registers a mesh spec; the sprite size follows its radius.
// It has the preset.ModelLoader signature.
func (r *Renderer) LoadModel(spec mesh.Spec) (particle.Model, error) {
	m, err := mesh.Generate(spec)
	if err != nil {
		return 0, fmt.Errorf("load model %s: %w", spec, err)
	}
	r.radii = append(r.radii, m.Radius())
	return particle.Model(len(r.radii)), nil
}

// SetGrid sets the ground grid. Nil disables it.
func (r *Renderer) SetGrid(lines []debug.GridVertex) {
	r.grid = lines
}

// Begin starts drawing a frame into target.
func (r *Renderer) Begin(target *ebiten.Image, viewProj math.Mat4) {
	b := target.Bounds()
	r.target = target
	r.width, r.height = float32(b.Dx()), float32(b.Dy())
	r.viewProj = viewProj
	r.mode = particle.BlendAlpha
	r.modes = r.modes[:0]
	r.drawn = 0
	target.Fill(r.bg)
}

// End flushes any pending sprites.
func (r *Renderer) End() {
	r.flush()
	r.target = nil
}

// Drawn returns how many sprites were submitted this frame.
func (r *Renderer) Drawn() int { return r.drawn }

// DrawGrid strokes the ground grid. Lines with an endpoint behind the camera
// are skipped.
func (r *Renderer) DrawGrid() {
	if r.target == nil {
		return
	}
	for i := 0; i+1 < len(r.grid); i += 2 {
		a, b := r.grid[i], r.grid[i+1]
		x0, y0, _, ok0 := r.viewProj.Project(math.Vec3{X: a.X, Y: a.Y, Z: a.Z}, r.width, r.height)
		x1, y1, _, ok1 := r.viewProj.Project(math.Vec3{X: b.X, Y: b.Y, Z: b.Z}, r.width, r.height)
		if !ok0 || !ok1 {
			continue
		}
		c := color.NRGBA{R: uint8(a.R * 255), G: uint8(a.G * 255), B: uint8(a.B * 255), A: 255}
		vector.StrokeLine(r.target, x0, y0, x1, y1, 1, c, true)
	}
}

// BeginBlendMode flushes the current batch and switches mode.
func (r *Renderer) BeginBlendMode(mode particle.BlendMode) {
	r.flush()
	r.modes = append(r.modes, r.mode)
	r.mode = mode
}

// EndBlendMode flushes and restores the previous mode.
func (r *Renderer) EndBlendMode() {
	r.flush()
	if n := len(r.modes); n > 0 {
		r.mode = r.modes[n-1]
		r.modes = r.modes[:n-1]
		return
	}
	r.mode = particle.BlendAlpha
}

// DrawModel queues one sprite.
func (r *Renderer) DrawModel(model particle.Model, transform math.Mat4, tint particle.Color) {
	i := int(model) - 1
	if r.target == nil || i < 0 || i >= len(r.radii) {
		return
	}
	center := transform.Translation()
	x, y, _, ok := r.viewProj.Project(center, r.width, r.height)
	if !ok {
		return
	}
	radius := r.radii[i] * transform.MaxScale()
	var rad float32 = 1
	if _, top, _, ok := r.viewProj.Project(center.Add(math.Up.Scale(radius)), r.width, r.height); ok {
		rad = max(y-top, 1)
	}

	if len(r.vertices)/4 >= maxQuads {
		r.flush()
	}
	r.vertices, r.indices = AppendQuad(r.vertices, r.indices, x, y, rad, vertexColor(tint, styleFor(r.mode)))
	r.drawn++
}

// vertexColor returns the straight or premultiplied vertex color for a style.
func vertexColor(tint particle.Color, s style) [4]float32 {
	cr, cg, cb, ca := tint.Floats()
	if s.fullColor {
		ca = 1
	}
	if s.premultiplied {
		return [4]float32{cr * ca, cg * ca, cb * ca, ca}
	}
	return [4]float32{cr, cg, cb, ca}
}

func (r *Renderer) flush() {
	if len(r.indices) == 0 || r.target == nil {
		r.vertices, r.indices = r.vertices[:0], r.indices[:0]
		return
	}
	s := styleFor(r.mode)
	r.op.Blend = s.blend
	r.op.ColorScaleMode = ebiten.ColorScaleModeStraightAlpha
	if s.premultiplied {
		r.op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	}
	r.op.Filter = ebiten.FilterLinear
	r.target.DrawTriangles(r.vertices, r.indices, r.disc, &r.op)
	r.vertices, r.indices = r.vertices[:0], r.indices[:0]
}

// AppendQuad appends a square sprite of half-size rad centered at (x, y)
// covering the whole disc texture.
func AppendQuad(vs []ebiten.Vertex, is []uint16, x, y, rad float32, c [4]float32) ([]ebiten.Vertex, []uint16) {
	base := uint16(len(vs))
	corners := [4][2]float32{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	for _, k := range corners {
		vs = append(vs, ebiten.Vertex{
			DstX:   x + k[0]*rad,
			DstY:   y + k[1]*rad,
			SrcX:   (k[0] + 1) / 2 * DiscSize,
			SrcY:   (k[1] + 1) / 2 * DiscSize,
			ColorR: c[0],
			ColorG: c[1],
			ColorB: c[2],
			ColorA: c[3],
		})
	}
	is = append(is, base, base+1, base+2, base+1, base+3, base+2)
	return vs, is
}

// DiscPixels returns premultiplied RGBA pixels of a white disc whose alpha
// falls off smoothly from the center to the edge.
func DiscPixels(size int) []byte {
	pix := make([]byte, size*size*4)
	half := float32(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float32(x) + 0.5 - half) / half
			dy := (float32(y) + 0.5 - half) / half
			d2 := dx*dx + dy*dy
			var a float32
			if d2 < 1 {
				a = (1 - d2) * (1 - d2)
			}
			v := uint8(a * 255)
			i := (y*size + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, v
		}
	}
	return pix
}
