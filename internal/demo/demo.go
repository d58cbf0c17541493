// Package demo builds the scene every frontend shares: presets, the worker
// pool, the particle system and the orbit camera, all from one Config.
package demo

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/pyre/internal/config"
	"github.com/Faultbox/pyre/internal/engine/camera"
	"github.com/Faultbox/pyre/internal/engine/parallel"
	"github.com/Faultbox/pyre/internal/engine/particle"
	"github.com/Faultbox/pyre/internal/engine/scene"
	"github.com/Faultbox/pyre/internal/logger"
	"github.com/Faultbox/pyre/internal/preset"
	"github.com/Faultbox/pyre/pkg/math"
)

// Demo is a ready-to-run scene.
type Demo struct {
	Scene      *scene.Scene
	Background particle.Color
	Seed       uint64

	pool *parallel.Pool
}

// Setup loads the configured effects, creating models with load.
func Setup(cfg *config.Config, load preset.ModelLoader) (*Demo, error) {
	bg, err := Background(cfg.Graphics.Background)
	if err != nil {
		return nil, err
	}

	presets, err := preset.LoadSet(cfg.Simulation.PresetFile, cfg.Simulation.Effects)
	if err != nil {
		return nil, fmt.Errorf("load presets: %w", err)
	}

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	var pool *parallel.Pool
	if cfg.Simulation.Workers != 1 {
		pool = parallel.New(cfg.Simulation.Workers, seed)
	}

	sys, err := preset.Build(presets, load, preset.BuildOptions{Pool: pool, Seed: seed})
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}
	if cfg.Simulation.AutoStart {
		sys.Start()
	}

	cam := camera.NewOrbitCamera(vec(cfg.Camera.Position), vec(cfg.Camera.Target), cfg.Camera.FovY)
	sc := scene.New(sys, cam, scene.Config{
		OriginStep:   cfg.Simulation.OriginStep,
		MaxFrameTime: float32(cfg.Simulation.MaxFrameTime.Seconds()),
		ShowGrid:     cfg.Graphics.ShowGrid,
	})

	workers := 1
	if pool != nil {
		workers = pool.Workers()
	}
	logger.Info("demo ready",
		zap.Int("effects", sys.Len()),
		zap.Int("capacity", sys.Capacity()),
		zap.Int("workers", workers),
		zap.Uint64("seed", seed),
	)
	return &Demo{Scene: sc, Background: bg, Seed: seed, pool: pool}, nil
}

// Close stops the worker pool.
func (d *Demo) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

// Status is a one-line summary for window titles and HUDs.
func (d *Demo) Status() string {
	state := "stopped"
	if d.Scene.System.IsEmitting() {
		state = "emitting"
	}
	return fmt.Sprintf("pyre | %d/%d particles | %s", d.Scene.Active(), d.Scene.System.Capacity(), state)
}

// Background parses a background color. Empty is black.
func Background(s string) (particle.Color, error) {
	if s == "" {
		return particle.Black, nil
	}
	c, err := particle.ParseColor(s)
	if err != nil {
		return particle.Color{}, fmt.Errorf("background: %w", err)
	}
	return c, nil
}

func vec(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
