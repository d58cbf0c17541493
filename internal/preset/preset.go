// Package preset loads particle effect definitions from YAML and builds
// particle systems from them.
package preset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/pyre/internal/engine/mesh"
	"github.com/Faultbox/pyre/internal/engine/parallel"
	"github.com/Faultbox/pyre/internal/engine/particle"
	"github.com/Faultbox/pyre/internal/logger"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Preset is one named emitter with the mesh its particles are drawn with.
type Preset struct {
	Name                   string    `yaml:"name"`
	Mesh                   mesh.Spec `yaml:"mesh"`
	particle.EmitterConfig `yaml:",inline"`
}

type file struct {
	Effects []Preset `yaml:"effects"`
}

// ModelLoader turns a mesh spec into a renderer model handle.
type ModelLoader func(mesh.Spec) (particle.Model, error)

// BuildOptions configures Build.
type BuildOptions struct {
	// Pool is shared by every emitter. Nil updates serially.
	Pool *parallel.Pool
	// Seed makes emitter generators deterministic. 0 seeds randomly.
	Seed uint64
}

// Parse decodes and validates a preset file.
func Parse(data []byte) ([]Preset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	if len(f.Effects) == 0 {
		return nil, fmt.Errorf("no effects defined")
	}
	if err := Validate(f.Effects); err != nil {
		return nil, err
	}
	return f.Effects, nil
}

// Load reads a preset file from disk.
func Load(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets: %w", err)
	}
	presets, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("presets loaded", zap.String("path", path), zap.Int("count", len(presets)))
	return presets, nil
}

// Default returns the embedded campfire presets: fire, smoke, embers and sparks.
func Default() []Preset {
	presets, err := Parse(defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded presets: %v", err))
	}
	return presets
}

// LoadSet loads path, or the embedded presets when path is empty, and
// selects names from it.
func LoadSet(path string, names []string) ([]Preset, error) {
	var presets []Preset
	if path == "" {
		presets = Default()
	} else {
		var err error
		if presets, err = Load(path); err != nil {
			return nil, err
		}
	}
	return Select(presets, names)
}

// Select returns the named presets in the order given. No names selects all.
func Select(presets []Preset, names []string) ([]Preset, error) {
	if len(names) == 0 {
		return presets, nil
	}

	byName := make(map[string]int, len(presets))
	for i, p := range presets {
		byName[p.Name] = i
	}

	out := make([]Preset, 0, len(names))
	for _, name := range names {
		i, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown effect %q", name)
		}
		out = append(out, presets[i])
	}
	return out, nil
}

// Validate rejects presets that can't be built and warns about ones that
// will build but never show anything useful.
func Validate(presets []Preset) error {
	seen := make(map[string]bool, len(presets))
	for i, p := range presets {
		if p.Name == "" {
			return fmt.Errorf("effect %d: missing name", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("effect %q: duplicate name", p.Name)
		}
		seen[p.Name] = true

		if err := p.Mesh.Validate(); err != nil {
			return fmt.Errorf("effect %q: %w", p.Name, err)
		}
		if _, err := particle.ParseBlendMode(p.BlendMode.String()); err != nil {
			return fmt.Errorf("effect %q: %w", p.Name, err)
		}

		for _, w := range p.warnings() {
			logger.Warn("degenerate effect", zap.String("effect", p.Name), zap.String("reason", w))
		}
	}
	return nil
}

func (p *Preset) warnings() []string {
	var out []string
	if p.Capacity <= 0 {
		out = append(out, "capacity is zero, nothing will spawn")
	}
	if p.EmissionRate <= 0 && p.Burst.Max <= 0 && p.Burst.Min <= 0 {
		out = append(out, "no emission rate and no burst")
	}
	ranges := []struct {
		name string
		inv  bool
	}{
		{"velocity", p.Velocity.Inverted()},
		{"direction_angle", p.DirectionAngle.Inverted()},
		{"velocity_angle", p.VelocityAngle.Inverted()},
		{"offset", p.Offset.Inverted()},
		{"origin_acceleration", p.OriginAcceleration.Inverted()},
		{"age", p.Age.Inverted()},
		{"burst", p.Burst.Inverted()},
	}
	for _, r := range ranges {
		if r.inv {
			out = append(out, r.name+" min > max, bounds will be swapped")
		}
	}
	if p.Direction.Length() == 0 {
		out = append(out, "zero direction")
	}
	return out
}

// Build creates one emitter per preset, in order, and registers them in a
// new system. Models are loaded once per distinct mesh spec.
func Build(presets []Preset, load ModelLoader, opts BuildOptions) (*particle.System, error) {
	models := make(map[mesh.Spec]particle.Model)
	sys := particle.NewSystem(opts.Pool)

	for i, p := range presets {
		model, ok := models[p.Mesh]
		if !ok {
			var err error
			if model, err = load(p.Mesh); err != nil {
				return nil, fmt.Errorf("effect %q: loading %s: %w", p.Name, p.Mesh, err)
			}
			models[p.Mesh] = model
		}

		cfg := p.EmitterConfig
		cfg.Model = model

		emitterOpts := []particle.Option{particle.WithName(p.Name)}
		if opts.Seed != 0 {
			emitterOpts = append(emitterOpts, particle.WithSeed(opts.Seed+uint64(i)))
		}
		sys.Register(particle.NewEmitter(cfg, emitterOpts...))
	}

	logger.Info("particle system built",
		zap.Int("emitters", sys.Len()),
		zap.Int("capacity", sys.Capacity()),
		zap.Int("models", len(models)))
	return sys, nil
}
