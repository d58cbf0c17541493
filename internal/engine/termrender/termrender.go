// Package termrender draws particles into a terminal grid with tcell.
// Each particle is projected to a character cell and its color is blended
// into that cell; the glyph is picked from the cell's resulting lightness.
package termrender

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/pyre/internal/engine/debug"
	"github.com/Faultbox/pyre/internal/engine/mesh"
	"github.com/Faultbox/pyre/internal/engine/particle"
	"github.com/Faultbox/pyre/pkg/math"
)

// CellAspect is the height of a terminal cell divided by its width.
const CellAspect = 2

// maxRadius caps the footprint of one particle in cells.
const maxRadius = 3

// ramp maps lightness to glyphs, darkest first.
var ramp = []rune(" .:-=+*#%@")

type cell struct {
	color colorful.Color
	hit   bool
	grid  bool
}

// Renderer implements particle.Renderer on a tcell.Screen.
type Renderer struct {
	screen   tcell.Screen
	width    int
	height   int
	cells    []cell
	bg       colorful.Color
	bgStyle  tcell.Style
	viewProj math.Mat4

	// Model handle-1 indexes the mesh radius.
	radii []float32
	grid  []debug.GridVertex
	mode  particle.BlendMode
	modes []particle.BlendMode
}

var _ particle.Renderer = (*Renderer)(nil)

// New creates a renderer for screen with the given background color.
func New(screen tcell.Screen, background particle.Color) *Renderer {
	bg, _ := toColorful(background)
	r := &Renderer{
		screen:   screen,
		bg:       bg,
		bgStyle:  tcell.StyleDefault.Background(tcell.NewRGBColor(rgb(bg))),
		viewProj: math.Identity(),
	}
	r.resize()
	return r
}

func rgb(c colorful.Color) (int32, int32, int32) {
	r, g, b := c.Clamped().RGB255()
	return int32(r), int32(g), int32(b)
}

// LoadModel registers a mesh spec; only its radius matters here.
// It has the preset.ModelLoader signature.
func (r *Renderer) LoadModel(spec mesh.Spec) (particle.Model, error) {
	m, err := mesh.Generate(spec)
	if err != nil {
		return 0, fmt.Errorf("load model %s: %w", spec, err)
	}
	r.radii = append(r.radii, m.Radius())
	return particle.Model(len(r.radii)), nil
}

// SetGrid sets the ground grid drawn under the particles. Nil disables it.
func (r *Renderer) SetGrid(lines []debug.GridVertex) {
	r.grid = lines
}

// Aspect returns the viewport aspect ratio in world units.
func (r *Renderer) Aspect() float32 {
	if r.height == 0 {
		return 1
	}
	return float32(r.width) / float32(r.height*CellAspect)
}

// Size returns the screen size in cells.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

func (r *Renderer) resize() {
	w, h := r.screen.Size()
	if w == r.width && h == r.height && r.cells != nil {
		return
	}
	r.width, r.height = w, h
	r.cells = make([]cell, w*h)
}

// Begin clears the cell buffer for a new frame.
func (r *Renderer) Begin(viewProj math.Mat4) {
	r.resize()
	r.viewProj = viewProj
	for i := range r.cells {
		r.cells[i] = cell{color: r.bg}
	}
	r.modes = r.modes[:0]
	r.mode = particle.BlendAlpha
}

// DrawGrid marks the cells the grid lines pass through.
func (r *Renderer) DrawGrid() {
	for i := 0; i+1 < len(r.grid); i += 2 {
		a, b := r.grid[i], r.grid[i+1]
		r.line(math.Vec3{X: a.X, Y: a.Y, Z: a.Z}, math.Vec3{X: b.X, Y: b.Y, Z: b.Z})
	}
}

// line walks a world-space segment in small steps so partially visible
// lines still show.
func (r *Renderer) line(a, b math.Vec3) {
	const steps = 64
	w, h := float32(r.width), float32(r.height)
	for s := 0; s <= steps; s++ {
		p := a.Add(b.Sub(a).Scale(float32(s) / steps))
		x, y, _, ok := r.viewProj.Project(p, w, h)
		if !ok {
			continue
		}
		if c := r.at(int(x), int(y)); c != nil {
			c.grid = true
		}
	}
}

func (r *Renderer) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return nil
	}
	return &r.cells[y*r.width+x]
}

// BeginBlendMode sets the blend mode for following draws.
func (r *Renderer) BeginBlendMode(mode particle.BlendMode) {
	r.modes = append(r.modes, r.mode)
	r.mode = mode
}

// EndBlendMode restores the previous blend mode.
func (r *Renderer) EndBlendMode() {
	if n := len(r.modes); n > 0 {
		r.mode = r.modes[n-1]
		r.modes = r.modes[:n-1]
		return
	}
	r.mode = particle.BlendAlpha
}

// DrawModel blends one particle into the cells under its projected footprint.
func (r *Renderer) DrawModel(model particle.Model, transform math.Mat4, tint particle.Color) {
	i := int(model) - 1
	if i < 0 || i >= len(r.radii) || tint.A == 0 {
		return
	}
	w, h := float32(r.width), float32(r.height)
	center := transform.Translation()
	x, y, _, ok := r.viewProj.Project(center, w, h)
	if !ok {
		return
	}

	src, a := toColorful(tint)

	// Footprint from the projected vertical extent of the scaled mesh.
	radius := r.radii[i] * transform.MaxScale()
	_, top, _, ok := r.viewProj.Project(center.Add(math.Up.Scale(radius)), w, h)
	rad := float32(0)
	if ok {
		rad = min(y-top, maxRadius)
	}

	cx, cy := int(x), int(y)
	if rad < 1 {
		r.blend(cx, cy, src, a)
		return
	}
	// Cells are twice as tall as wide, so the disc spans twice the columns.
	ir := int(rad)
	for dy := -ir; dy <= ir; dy++ {
		for dx := -ir * CellAspect; dx <= ir*CellAspect; dx++ {
			fx := float32(dx) / CellAspect
			d2 := fx*fx + float32(dy*dy)
			if d2 > rad*rad {
				continue
			}
			falloff := 1 - d2/(rad*rad+1)
			r.blend(cx+dx, cy+dy, src, a*float64(falloff))
		}
	}
}

func (r *Renderer) blend(x, y int, src colorful.Color, a float64) {
	c := r.at(x, y)
	if c == nil {
		return
	}
	c.color = composite(c.color, src, a, r.mode)
	c.hit = true
}

// glyph picks a ramp character for a blended cell color.
func glyph(c colorful.Color) rune {
	_, _, l := c.Hsl()
	i := int(l * float64(len(ramp)))
	if i >= len(ramp) {
		i = len(ramp) - 1
	}
	if i < 1 {
		i = 1
	}
	return ramp[i]
}

// End writes the frame to the screen. Call Show afterwards.
func (r *Renderer) End() {
	gridStyle := r.bgStyle.Foreground(tcell.NewRGBColor(rgb(r.bg.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 0.3))))
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			c := &r.cells[y*r.width+x]
			switch {
			case c.hit:
				r.screen.SetContent(x, y, glyph(c.color), nil, r.bgStyle.Foreground(tcell.NewRGBColor(rgb(c.color))))
			case c.grid:
				r.screen.SetContent(x, y, '·', nil, gridStyle)
			default:
				r.screen.SetContent(x, y, ' ', nil, r.bgStyle)
			}
		}
	}
}

// DrawText writes a status line on top of the frame.
func (r *Renderer) DrawText(x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		if x >= r.width {
			return
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

// Show flushes the screen.
func (r *Renderer) Show() {
	r.screen.Show()
}

// Hits returns how many cells particles touched in the current frame.
func (r *Renderer) Hits() int {
	n := 0
	for i := range r.cells {
		if r.cells[i].hit {
			n++
		}
	}
	return n
}
