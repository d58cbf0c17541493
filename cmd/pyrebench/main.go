// Package main runs the configured effects headless and reports update
// throughput for serial and pooled simulation.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/pyre/internal/config"
	"github.com/Faultbox/pyre/internal/demo"
	"github.com/Faultbox/pyre/internal/engine/mesh"
	"github.com/Faultbox/pyre/internal/engine/particle"
	"github.com/Faultbox/pyre/internal/logger"
	"github.com/Faultbox/pyre/pkg/math"
)

var (
	flagFrames = flag.Int("frames", 2000, "Frames to simulate per run")
	flagDT     = flag.Duration("dt", time.Second/60, "Fixed frame time")
	flagWarmup = flag.Int("warmup", 300, "Frames before measuring, so pools fill")
	flagDraw   = flag.Bool("draw", true, "Include draw submission in the frame")
)

// result is one benchmark run.
type result struct {
	workers     int
	perFrame    time.Duration
	avgActive   float64
	allocsFrame float64
	bytesFrame  float64
}

// nullRenderer accepts draws and counts them.
type nullRenderer struct {
	draws int
}

func (n *nullRenderer) BeginBlendMode(particle.BlendMode) {}
func (n *nullRenderer) EndBlendMode() {}
func (n *nullRenderer) DrawModel(particle.Model, math.Mat4, particle.Color) { n.draws++ }

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = 1
	}
	cfg.Simulation.AutoStart = true
	cfg.Simulation.MaxFrameTime = 0

	pooled := cfg.Simulation.Workers
	if pooled == 1 {
		pooled = 0
	}

	var results []result
	for _, workers := range []int{1, pooled} {
		res, err := bench(cfg, workers)
		if err != nil {
			logger.Error("benchmark failed", zap.Error(err))
			os.Exit(1)
		}
		results = append(results, res)
	}

	fmt.Printf("%-10s %14s %12s %14s %14s\n", "workers", "ns/frame", "avg active", "allocs/frame", "bytes/frame")
	for _, r := range results {
		fmt.Printf("%-10d %14d %12.1f %14.2f %14.1f\n", r.workers, r.perFrame.Nanoseconds(), r.avgActive, r.allocsFrame, r.bytesFrame)
	}
	if len(results) == 2 && results[1].perFrame > 0 {
		fmt.Printf("speedup: %.2fx\n", float64(results[0].perFrame)/float64(results[1].perFrame))
	}
}

func bench(base *config.Config, workers int) (result, error) {
	cfg := *base
	cfg.Simulation.Workers = workers

	var models int
	load := func(mesh.Spec) (particle.Model, error) {
		models++
		return particle.Model(models), nil
	}
	d, err := demo.Setup(&cfg, load)
	if err != nil {
		return result{}, err
	}
	defer d.Close()

	sc := d.Scene
	dt := float32(flagDT.Seconds())
	var r nullRenderer

	for i := 0; i < *flagWarmup; i++ {
		sc.Update(dt)
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	var active int
	start := time.Now()
	for i := 0; i < *flagFrames; i++ {
		active += sc.Update(dt)
		if *flagDraw {
			sc.Draw(&r)
		}
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)

	n := max(*flagFrames, 1)
	res := result{
		workers:     workers,
		perFrame:    elapsed / time.Duration(n),
		avgActive:   float64(active) / float64(n),
		allocsFrame: float64(after.Mallocs-before.Mallocs) / float64(n),
		bytesFrame:  float64(after.TotalAlloc-before.TotalAlloc) / float64(n),
	}
	if workers == 0 {
		res.workers = runtime.GOMAXPROCS(0)
	}

	logger.Info("benchmark run",
		zap.Int("workers", res.workers),
		zap.Int("frames", n),
		zap.Duration("per_frame", res.perFrame),
		zap.Float64("avg_active", res.avgActive),
		zap.Float64("allocs_per_frame", res.allocsFrame),
		zap.Int("draws", r.draws),
	)
	return res, nil
}
