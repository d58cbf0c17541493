package preset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/pyre/internal/engine/mesh"
	"github.com/Faultbox/pyre/internal/engine/parallel"
	"github.com/Faultbox/pyre/internal/engine/particle"
	"github.com/Faultbox/pyre/pkg/math"
)

func TestDefault(t *testing.T) {
	presets := Default()

	want := []struct {
		name     string
		shape    string
		blend    particle.BlendMode
		capacity int
		rate     float32
	}{
		{"fire", mesh.ShapePlane, particle.BlendAdditive, 500, 200},
		{"smoke", mesh.ShapePlane, particle.BlendAlpha, 300, 100},
		{"embers", mesh.ShapeSphere, particle.BlendAdditive, 100, 50},
		{"sparks", mesh.ShapeCube, particle.BlendAddColors, 200, 0},
	}
	if len(presets) != len(want) {
		t.Fatalf("got %d presets, want %d", len(presets), len(want))
	}
	for i, w := range want {
		p := presets[i]
		if p.Name != w.name || p.Mesh.Shape != w.shape || p.BlendMode != w.blend ||
			p.Capacity != w.capacity || p.EmissionRate != w.rate {
			t.Errorf("preset %d = %s/%s/%v/%d/%v, want %+v",
				i, p.Name, p.Mesh.Shape, p.BlendMode, p.Capacity, p.EmissionRate, w)
		}
		if p.Origin != (math.Vec3{Y: -2}) {
			t.Errorf("%s origin = %v, want (0,-2,0)", p.Name, p.Origin)
		}
	}

	fire := presets[0]
	if fire.Velocity != (particle.ScalarRange{Min: 1, Max: 2}) {
		t.Errorf("fire velocity = %+v", fire.Velocity)
	}
	if fire.StartColor != (particle.Color{R: 255, G: 150, B: 0, A: 255}) {
		t.Errorf("fire start color = %v", fire.StartColor)
	}
	embers := presets[2]
	if embers.Gravity != 0.1 || !embers.Collision || embers.Mesh.Size != 0.05 {
		t.Errorf("embers = gravity %v collision %v size %v", embers.Gravity, embers.Collision, embers.Mesh.Size)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", ``, "no effects"},
		{"missing name", "effects:\n  - mesh: {shape: plane, size: 1}\n", "missing name"},
		{"duplicate", "effects:\n  - {name: a, mesh: {shape: plane, size: 1}}\n  - {name: a, mesh: {shape: plane, size: 1}}\n", "duplicate"},
		{"bad shape", "effects:\n  - {name: a, mesh: {shape: torus, size: 1}}\n", "unknown mesh shape"},
		{"bad blend", "effects:\n  - {name: a, mesh: {shape: plane, size: 1}, blend_mode: glow}\n", "unknown blend mode"},
		{"typo", "effects:\n  - {name: a, mesh: {shape: plane, size: 1}, velocty: 1}\n", "velocty"},
		{"bad color", "effects:\n  - {name: a, mesh: {shape: plane, size: 1}, start_color: orange}\n", "invalid color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestParseDegenerateIsAllowed(t *testing.T) {
	data := `
effects:
  - name: inverted
    mesh: {shape: cube, size: 0.1}
    direction: {x: 1, y: 0, z: 0}
    age: "[3 1]"
    capacity: 0
`
	presets, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if w := presets[0].warnings(); len(w) != 3 {
		t.Errorf("warnings = %v, want capacity, emission and age", w)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "torch.yaml")
	data := `
effects:
  - name: torch
    mesh: {shape: plane, size: 0.1}
    direction: {x: 0, y: 1, z: 0}
    velocity: 1
    age: {min: 0.2, max: 0.4}
    burst: [5, 10]
    capacity: 64
    emission_rate: 30
    start_color: "#ffffff"
    end_color: "#ff000000"
    blend_mode: alpha_premultiply
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	presets, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p := presets[0]
	if p.Age != (particle.ScalarRange{Min: 0.2, Max: 0.4}) || p.Burst != (particle.IntRange{Min: 5, Max: 10}) {
		t.Errorf("ranges = %+v / %+v", p.Age, p.Burst)
	}
	if p.BlendMode != particle.BlendAlphaPremultiply || p.StartColor != particle.White {
		t.Errorf("blend %v start %v", p.BlendMode, p.StartColor)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSelect(t *testing.T) {
	all := Default()

	got, err := Select(all, []string{"embers", "fire"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != 2 || got[0].Name != "embers" || got[1].Name != "fire" {
		t.Errorf("Select order = %v", names(got))
	}

	if got, _ := Select(all, nil); len(got) != len(all) {
		t.Errorf("empty selection returned %d presets", len(got))
	}
	if _, err := Select(all, []string{"lava"}); err == nil {
		t.Error("expected error for unknown effect")
	}
}

func TestLoadSetEmbedded(t *testing.T) {
	got, err := LoadSet("", []string{"smoke"})
	if err != nil {
		t.Fatalf("LoadSet: %v", err)
	}
	if len(got) != 1 || got[0].Name != "smoke" {
		t.Errorf("LoadSet = %v", names(got))
	}
}

func TestBuild(t *testing.T) {
	pool := parallel.New(2, 1)
	defer pool.Close()

	var loaded []mesh.Spec
	load := func(spec mesh.Spec) (particle.Model, error) {
		loaded = append(loaded, spec)
		return particle.Model(len(loaded)), nil
	}

	presets := Default()
	// A second plane of the fire's size shares its model.
	extra := presets[0]
	extra.Name = "fire2"
	presets = append(presets, extra)

	sys, err := Build(presets, load, BuildOptions{Pool: pool, Seed: 7})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sys.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", sys.Len())
	}
	if len(loaded) != 4 {
		t.Errorf("loaded %d models, want 4 distinct meshes", len(loaded))
	}

	es := sys.Emitters()
	for i, e := range es {
		if e.Name() != presets[i].Name {
			t.Errorf("emitter %d = %q, want %q", i, e.Name(), presets[i].Name)
		}
	}
	if es[0].Config().Model != es[4].Config().Model {
		t.Error("identical meshes loaded twice")
	}
	if es[0].Config().Model == es[1].Config().Model {
		t.Error("fire and smoke share a model")
	}

	sys.Start()
	if n := sys.Update(0.1); n == 0 {
		t.Error("built system spawned nothing")
	}
}

func TestBuildLoaderError(t *testing.T) {
	boom := errors.New("no gpu")
	_, err := Build(Default(), func(mesh.Spec) (particle.Model, error) { return 0, boom }, BuildOptions{})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped loader error", err)
	}
}

func names(ps []Preset) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}
