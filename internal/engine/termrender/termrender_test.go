package termrender

import (
	gomath "math"
	"testing"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/pyre/internal/engine/debug"
	"github.com/Faultbox/pyre/internal/engine/mesh"
	"github.com/Faultbox/pyre/internal/engine/particle"
	"github.com/Faultbox/pyre/pkg/math"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func newRenderer(t *testing.T) (*Renderer, tcell.SimulationScreen, particle.Model) {
	t.Helper()
	s := newScreen(t, 80, 24)
	r := New(s, particle.Black)
	m, err := r.LoadModel(mesh.Spec{Shape: mesh.ShapePlane, Size: 0.2})
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	return r, s, m
}

func near(a, b colorful.Color) bool {
	const eps = 1e-9
	return gomath.Abs(a.R-b.R) < eps && gomath.Abs(a.G-b.G) < eps && gomath.Abs(a.B-b.B) < eps
}

func TestComposite(t *testing.T) {
	black := colorful.Color{}
	grey := colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	white := colorful.Color{R: 1, G: 1, B: 1}
	red := colorful.Color{R: 1}

	tests := []struct {
		name     string
		dst, src colorful.Color
		a        float64
		mode     particle.BlendMode
		want     colorful.Color
	}{
		{"alpha half", black, white, 0.5, particle.BlendAlpha, grey},
		{"alpha opaque", grey, red, 1, particle.BlendAlpha, red},
		{"additive", grey, white, 0.5, particle.BlendAdditive, white},
		{"additive clamps", white, white, 1, particle.BlendAdditive, white},
		{"multiplied", grey, red, 1, particle.BlendMultiplied, colorful.Color{R: 0.5}},
		{"add colors ignores alpha", black, grey, 0, particle.BlendAddColors, grey},
		{"subtract src minus dst", grey, white, 1, particle.BlendSubtractColors, grey},
		{"subtract clamps", white, grey, 1, particle.BlendSubtractColors, black},
		{"premultiplied", grey, red, 0.5, particle.BlendAlphaPremultiply, colorful.Color{R: 1, G: 0.25, B: 0.25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := composite(tt.dst, tt.src, tt.a, tt.mode); !near(got, tt.want) {
				t.Errorf("composite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGlyph(t *testing.T) {
	if g := glyph(colorful.Color{}); g != '.' {
		t.Errorf("glyph(black) = %q, want '.'", g)
	}
	if g := glyph(colorful.Color{R: 1, G: 1, B: 1}); g != '@' {
		t.Errorf("glyph(white) = %q, want '@'", g)
	}
	dim := glyph(colorful.Color{R: 0.2, G: 0.1})
	bright := glyph(colorful.Color{R: 1, G: 0.8, B: 0.4})
	if dim == bright {
		t.Errorf("dim and bright share glyph %q", dim)
	}
}

func TestDrawModelAtCenter(t *testing.T) {
	r, s, m := newRenderer(t)

	r.Begin(math.Identity())
	r.BeginBlendMode(particle.BlendAdditive)
	r.DrawModel(m, math.TranslateScale(math.Vec3{}, 1), particle.White)
	r.EndBlendMode()
	r.End()

	if r.Hits() < 2 {
		t.Errorf("Hits() = %d, want a disc of cells", r.Hits())
	}
	ch, _, _, _ := s.GetContent(40, 12)
	if ch == ' ' {
		t.Error("center cell left empty")
	}
	ch, _, _, _ = s.GetContent(0, 0)
	if ch != ' ' {
		t.Errorf("corner cell = %q, want blank", ch)
	}
}

func TestDrawModelSkips(t *testing.T) {
	r, _, m := newRenderer(t)

	eye := math.Vec3{Z: 5}
	vp := math.Perspective(math.Radians(45), r.Aspect(), 0.1, 100).Mul(math.LookAt(eye, math.Vec3{}, math.Up))

	tests := []struct {
		name  string
		model particle.Model
		pos   math.Vec3
		tint  particle.Color
	}{
		{"behind camera", m, math.Vec3{Z: 10}, particle.White},
		{"transparent", m, math.Vec3{}, particle.Color{R: 255}},
		{"unknown model", m + 5, math.Vec3{}, particle.White},
		{"zero model", 0, math.Vec3{}, particle.White},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.Begin(vp)
			r.DrawModel(tt.model, math.TranslateScale(tt.pos, 1), tt.tint)
			if r.Hits() != 0 {
				t.Errorf("Hits() = %d, want 0", r.Hits())
			}
		})
	}
}

func TestBlendModeStack(t *testing.T) {
	r, _, _ := newRenderer(t)
	r.Begin(math.Identity())

	r.BeginBlendMode(particle.BlendAdditive)
	r.BeginBlendMode(particle.BlendSubtractColors)
	if r.mode != particle.BlendSubtractColors {
		t.Errorf("mode = %v, want subtract_colors", r.mode)
	}
	r.EndBlendMode()
	if r.mode != particle.BlendAdditive {
		t.Errorf("mode = %v, want additive", r.mode)
	}
	r.EndBlendMode()
	r.EndBlendMode()
	if r.mode != particle.BlendAlpha {
		t.Errorf("mode = %v, want alpha", r.mode)
	}
}

func TestDrawGrid(t *testing.T) {
	r, s, _ := newRenderer(t)
	r.SetGrid(debug.GridLines(2, 0.5))

	r.Begin(math.Identity())
	r.DrawGrid()
	r.End()

	ch, _, _, _ := s.GetContent(40, 12)
	if ch != '·' {
		t.Errorf("grid cell = %q, want '·'", ch)
	}
	if r.Hits() != 0 {
		t.Errorf("grid counted as particle hits: %d", r.Hits())
	}
}

func TestResizeAndAspect(t *testing.T) {
	r, s, _ := newRenderer(t)
	if got := r.Aspect(); gomath.Abs(float64(got)-80.0/48.0) > 1e-6 {
		t.Errorf("Aspect() = %f, want %f", got, 80.0/48.0)
	}

	s.SetSize(40, 10)
	r.Begin(math.Identity())
	if w, h := r.Size(); w != 40 || h != 10 {
		t.Errorf("Size() = %dx%d, want 40x10", w, h)
	}
	if len(r.cells) != 400 {
		t.Errorf("len(cells) = %d, want 400", len(r.cells))
	}
}

func TestDrawText(t *testing.T) {
	r, s, _ := newRenderer(t)
	r.Begin(math.Identity())
	r.End()
	r.DrawText(78, 0, "abc", tcell.StyleDefault)

	ch, _, _, _ := s.GetContent(79, 0)
	if ch != 'b' {
		t.Errorf("cell (79,0) = %q, want 'b'", ch)
	}
}
