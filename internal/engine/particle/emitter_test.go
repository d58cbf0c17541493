package particle

import (
	"fmt"
	"testing"

	"github.com/Faultbox/pyre/internal/engine/parallel"
	"github.com/Faultbox/pyre/pkg/math"
)

type drawCall struct {
	model     Model
	transform math.Mat4
	tint      Color
}

// recorder captures draw submissions in order.
type recorder struct {
	blends []BlendMode
	ends   int
	calls  []drawCall
	events []string
}

func (r *recorder) BeginBlendMode(mode BlendMode) {
	r.blends = append(r.blends, mode)
	r.events = append(r.events, "begin:"+mode.String())
}

func (r *recorder) EndBlendMode() {
	r.ends++
	r.events = append(r.events, "end")
}

func (r *recorder) DrawModel(model Model, transform math.Mat4, tint Color) {
	r.calls = append(r.calls, drawCall{model, transform, tint})
	r.events = append(r.events, fmt.Sprintf("draw:%d", model))
}

// nopRenderer discards everything.
type nopRenderer struct{ n int }

func (r *nopRenderer) BeginBlendMode(BlendMode)          {}
func (r *nopRenderer) EndBlendMode()                     {}
func (r *nopRenderer) DrawModel(Model, math.Mat4, Color) { r.n++ }

func fireConfig() EmitterConfig {
	return EmitterConfig{
		Direction:      math.Vec3{Y: 2},
		Velocity:       ScalarRange{0.1, 1},
		DirectionAngle: ScalarRange{-15, 15},
		VelocityAngle:  ScalarRange{0, 360},
		Offset:         ScalarRange{0, 0.5},
		Age:            ScalarRange{1, 3},
		Burst:          IntRange{10, 30},
		Capacity:       500,
		EmissionRate:   200,
		StartColor:     Color{255, 161, 0, 255},
		EndColor:       Color{0, 0, 0, 0},
		BlendMode:      BlendAdditive,
		Model:          7,
	}
}

func TestNewEmitter(t *testing.T) {
	e := NewEmitter(fireConfig(), WithSeed(1), WithName("fire"))

	if e.Capacity() != 500 || len(e.Particles()) != 500 {
		t.Fatalf("Capacity() = %d, want 500", e.Capacity())
	}
	if e.ActiveCount() != 0 {
		t.Errorf("new emitter has %d active particles", e.ActiveCount())
	}
	if e.IsEmitting() {
		t.Error("new emitter should not be emitting")
	}
	if d := e.Config().Direction; d != math.Up {
		t.Errorf("direction = %v, want normalized (0,1,0)", d)
	}
	if e.Name() != "fire" {
		t.Errorf("Name() = %q", e.Name())
	}

	neg := fireConfig()
	neg.Capacity = -5
	if c := NewEmitter(neg).Capacity(); c != 0 {
		t.Errorf("negative capacity gave %d slots", c)
	}
}

func TestSaturatesInOneStep(t *testing.T) {
	cfg := fireConfig()
	cfg.Capacity = 10
	cfg.EmissionRate = 100
	cfg.Burst = IntRange{0, 0}
	cfg.Age = Fixed(5)

	e := NewEmitter(cfg, WithSeed(1))
	e.Start()

	if got := e.Update(0.1); got != 10 {
		t.Errorf("Update() = %d, want 10", got)
	}
	if got := e.ActiveCount(); got != 10 {
		t.Errorf("ActiveCount() = %d, want 10", got)
	}
}

func TestActiveNeverExceedsCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		rate     float32
		dt       float32
	}{
		{"huge rate", 50, 1e6, 1.0 / 60},
		{"long frame", 20, 500, 2},
		{"tiny pool", 1, 1000, 0.016},
		{"empty pool", 0, 1000, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fireConfig()
			cfg.Capacity = tt.capacity
			cfg.EmissionRate = tt.rate
			cfg.Age = ScalarRange{0.05, 0.5}

			e := NewEmitter(cfg, WithSeed(3))
			e.Start()
			for frame := 0; frame < 200; frame++ {
				if frame%10 == 0 {
					e.Burst()
				}
				if got := e.Update(tt.dt); got > tt.capacity {
					t.Fatalf("frame %d: Update() = %d > capacity %d", frame, got, tt.capacity)
				}
				if got := e.ActiveCount(); got > tt.capacity {
					t.Fatalf("frame %d: ActiveCount() = %d > capacity %d", frame, got, tt.capacity)
				}
			}
		})
	}
}

func TestSplitFrameSpawnsSameCount(t *testing.T) {
	rates := []float32{1, 7.5, 37, 60, 200, 999}
	dts := []float32{0.016, 0.1, 0.25, 1}

	for _, rate := range rates {
		for _, dt := range dts {
			cfg := fireConfig()
			cfg.Capacity = 5000
			cfg.EmissionRate = rate
			cfg.Age = Fixed(1000)

			whole := NewEmitter(cfg, WithSeed(1))
			whole.Start()
			halves := NewEmitter(cfg, WithSeed(1))
			halves.Start()

			var a, b int
			for i := 0; i < 4; i++ {
				a = whole.Update(dt)
				halves.Update(dt / 2)
				b = halves.Update(dt / 2)
			}
			if diff := a - b; diff < -1 || diff > 1 {
				t.Errorf("rate %v dt %v: whole = %d, halves = %d", rate, dt, a, b)
			}
		}
	}
}

func TestFractionalEmissionAccumulates(t *testing.T) {
	cfg := fireConfig()
	cfg.EmissionRate = 10
	cfg.Age = Fixed(1000)

	e := NewEmitter(cfg, WithSeed(1))
	e.Start()

	// 0.05 s at 10/s is half a particle per frame.
	counts := []int{0, 1, 1, 2, 2, 3}
	for i, want := range counts {
		if got := e.Update(0.05); got != want {
			t.Errorf("frame %d: Update() = %d, want %d", i, got, want)
		}
	}
}

func TestSaturatedEmitterRefillsFreedSlots(t *testing.T) {
	cfg := fireConfig()
	cfg.Capacity = 10
	cfg.EmissionRate = 10
	cfg.Age = Fixed(1000)

	e := NewEmitter(cfg, WithSeed(1))
	e.Start()
	for i := 0; i < 51; i++ {
		e.Update(1)
	}
	if got := e.ActiveCount(); got != 10 {
		t.Fatalf("ActiveCount() = %d after saturation, want 10", got)
	}

	for round := 0; round < 2; round++ {
		for i := 1; i < 10; i++ {
			e.particles[i].active = false
		}
		if got := e.Update(0.01); got != 10 {
			t.Errorf("round %d: Update() = %d, want 10", round, got)
		}
	}
	if e.mustEmit < 400 {
		t.Errorf("mustEmit = %v, want the backlog kept", e.mustEmit)
	}
}

func TestStoppedEmitterNeverActivates(t *testing.T) {
	e := NewEmitter(fireConfig(), WithSeed(1))
	for i := 0; i < 100; i++ {
		if got := e.Update(0.1); got != 0 {
			t.Fatalf("frame %d: Update() = %d on a stopped emitter", i, got)
		}
	}

	e.Start()
	e.Update(0.1)
	e.Stop()
	live := e.ActiveCount()
	if live == 0 {
		t.Fatal("no particles after a started frame")
	}
	// Stopping keeps existing particles alive.
	if got := e.Update(0.01); got != live {
		t.Errorf("Update() after Stop = %d, want %d", got, live)
	}
}

func TestBurst(t *testing.T) {
	cfg := fireConfig()
	cfg.Capacity = 25
	cfg.Burst = IntRange{10, 10}
	cfg.Age = Fixed(100)

	e := NewEmitter(cfg, WithSeed(1))

	if got := e.Burst(); got != 10 {
		t.Fatalf("first Burst() = %d, want 10", got)
	}
	for i, p := range e.Particles() {
		if p.Active() != (i < 10) {
			t.Fatalf("slot %d active = %v after first burst", i, p.Active())
		}
	}

	// Age the first wave so a reactivation would be visible.
	e.Update(1)
	if got := e.Burst(); got != 10 {
		t.Fatalf("second Burst() = %d, want 10", got)
	}
	for i := 0; i < 10; i++ {
		if e.Particles()[i].Age() != 1 {
			t.Errorf("slot %d was reactivated", i)
		}
	}

	// Only 5 free slots remain.
	if got := e.Burst(); got != 5 {
		t.Errorf("third Burst() = %d, want 5", got)
	}
	if got := e.Burst(); got != 0 {
		t.Errorf("Burst() on a full pool = %d, want 0", got)
	}
	if got := e.ActiveCount(); got != 25 {
		t.Errorf("ActiveCount() = %d, want 25", got)
	}
	if e.IsEmitting() {
		t.Error("Burst started emission")
	}
}

func TestBurstFillsGaps(t *testing.T) {
	cfg := fireConfig()
	cfg.Capacity = 6
	cfg.Burst = IntRange{2, 2}
	cfg.Age = Fixed(100)

	e := NewEmitter(cfg, WithSeed(1))
	e.particles[0].active = true
	e.particles[2].active = true

	e.Burst()
	want := []bool{true, true, true, true, false, false}
	for i, p := range e.Particles() {
		if p.Active() != want[i] {
			t.Errorf("slot %d active = %v, want %v", i, p.Active(), want[i])
		}
	}
}

func TestSpawnedParticleMovesInSpawnFrame(t *testing.T) {
	cfg := fireConfig()
	cfg.Capacity = 1
	cfg.EmissionRate = 10
	cfg.Velocity = Fixed(1)
	cfg.Offset = Fixed(0)
	cfg.DirectionAngle = Fixed(0)
	cfg.Age = Fixed(10)

	e := NewEmitter(cfg, WithSeed(1))
	e.Start()
	e.Update(0.1)

	p := e.Particles()[0]
	if !p.Active() {
		t.Fatal("particle not spawned")
	}
	if p.Age() != 0.1 {
		t.Errorf("Age() = %v, want 0.1", p.Age())
	}
	if y := p.Position().Y; !near(y, 0.1) {
		t.Errorf("height = %v, want 0.1", y)
	}
}

func TestSetOrigin(t *testing.T) {
	cfg := fireConfig()
	cfg.Burst = IntRange{1, 1}
	cfg.Offset = Fixed(0)
	e := NewEmitter(cfg, WithSeed(1))

	origin := math.Vec3{X: 3, Y: -2, Z: 1}
	e.SetOrigin(origin)
	if e.Origin() != origin {
		t.Fatalf("Origin() = %v", e.Origin())
	}
	e.Burst()
	if got := e.Particles()[0].Position(); got != origin {
		t.Errorf("spawn position = %v, want %v", got, origin)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	for _, workers := range []int{2, 3, 8} {
		t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
			pool := parallel.New(workers, 9)
			defer pool.Close()

			cfg := fireConfig()
			cfg.Age = Fixed(0.5)
			cfg.Capacity = 333

			serial := NewEmitter(cfg, WithSeed(1))
			pooled := NewEmitter(cfg, WithSeed(1), WithPool(pool))
			serial.Start()
			pooled.Start()

			for frame := 0; frame < 300; frame++ {
				dt := float32(1.0 / 60)
				if frame%7 == 0 {
					dt = 0.05
				}
				a, b := serial.Update(dt), pooled.Update(dt)
				if a != b {
					t.Fatalf("frame %d: serial = %d, pooled = %d", frame, a, b)
				}
				if live := pooled.ActiveCount(); b < live {
					t.Fatalf("frame %d: reduction %d lost particles (%d live)", frame, b, live)
				}
			}
		})
	}
}

func TestDrawSubmitsLiveParticles(t *testing.T) {
	cfg := fireConfig()
	cfg.Capacity = 8
	cfg.Burst = IntRange{5, 5}
	cfg.Age = Fixed(2)

	e := NewEmitter(cfg, WithSeed(1))
	e.Burst()

	var r recorder
	e.Draw(&r)

	if len(r.blends) != 1 || r.blends[0] != BlendAdditive || r.ends != 1 {
		t.Fatalf("blend scope = %v / %d ends, want one additive scope", r.blends, r.ends)
	}
	if r.events[0] != "begin:additive" || r.events[len(r.events)-1] != "end" {
		t.Errorf("draws not enclosed by blend scope: %v", r.events)
	}
	if len(r.calls) != 5 {
		t.Fatalf("DrawModel called %d times, want 5", len(r.calls))
	}
	for i, c := range r.calls {
		p := e.Particles()[i]
		if c.model != 7 {
			t.Errorf("call %d: model = %d, want 7", i, c.model)
		}
		if c.tint != cfg.StartColor {
			t.Errorf("call %d: tint at spawn = %v, want start color %v", i, c.tint, cfg.StartColor)
		}
		if want := math.TranslateScale(p.Position(), p.Scale()); c.transform != want {
			t.Errorf("call %d: transform = %v, want %v", i, c.transform, want)
		}
	}
}

func TestDrawTransformsAreIndependent(t *testing.T) {
	cfg := fireConfig()
	cfg.Capacity = 2
	e := NewEmitter(cfg, WithSeed(1))
	e.particles[0] = Particle{position: math.Vec3{X: 1}, scale: 0.5, ttl: 1, active: true}
	e.particles[1] = Particle{position: math.Vec3{X: -4, Y: 2}, scale: 0.25, ttl: 1, active: true}

	var r recorder
	e.Draw(&r)
	e.Draw(&r)

	if r.calls[0].transform == r.calls[1].transform {
		t.Error("particles share a transform")
	}
	// A second draw sees no state left over from the first.
	if r.calls[0] != r.calls[2] || r.calls[1] != r.calls[3] {
		t.Error("redraw produced different submissions")
	}
	if e.Config().Model != 7 {
		t.Error("model handle changed")
	}
}

func TestDrawFadesTowardEndColor(t *testing.T) {
	cfg := fireConfig()
	cfg.Capacity = 1
	e := NewEmitter(cfg, WithSeed(1))
	e.particles[0] = Particle{ttl: 2, age: 1.999, scale: 1, active: true}

	var r recorder
	e.Draw(&r)

	tint := r.calls[0].tint
	if tint.R > 1 || tint.G > 1 || tint.A > 1 {
		t.Errorf("tint near ttl = %v, want close to %v", tint, cfg.EndColor)
	}
}

func TestDrawZeroTTLUsesStartColor(t *testing.T) {
	cfg := fireConfig()
	cfg.Capacity = 1
	e := NewEmitter(cfg, WithSeed(1))
	e.particles[0] = Particle{ttl: 0, age: 0, scale: 1, active: true}

	var r recorder
	e.Draw(&r)
	if r.calls[0].tint != cfg.StartColor {
		t.Errorf("tint = %v, want %v", r.calls[0].tint, cfg.StartColor)
	}
}

func TestUpdateAndDrawDoNotAllocate(t *testing.T) {
	pool := parallel.New(4, 1)
	defer pool.Close()

	for _, tc := range []struct {
		name string
		opts []Option
	}{
		{"serial", []Option{WithSeed(1)}},
		{"pooled", []Option{WithSeed(1), WithPool(pool)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEmitter(fireConfig(), tc.opts...)
			e.Start()
			r := &nopRenderer{}
			var rr Renderer = r

			allocs := testing.AllocsPerRun(200, func() {
				e.Update(1.0 / 60)
				e.Draw(rr)
			})
			if allocs != 0 {
				t.Errorf("frame allocated %.1f times", allocs)
			}
			if r.n == 0 {
				t.Error("nothing was drawn")
			}
		})
	}
}

func BenchmarkEmitterUpdate(b *testing.B) {
	cfg := fireConfig()
	cfg.Capacity = 100000
	cfg.EmissionRate = 50000

	for _, workers := range []int{1, 0} {
		name := "serial"
		var opts []Option
		if workers != 1 {
			pool := parallel.New(workers, 1)
			defer pool.Close()
			opts = append(opts, WithPool(pool))
			name = fmt.Sprintf("pool%d", pool.Workers())
		}
		b.Run(name, func(b *testing.B) {
			e := NewEmitter(cfg, append(opts, WithSeed(1))...)
			e.Start()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				e.Update(1.0 / 60)
			}
		})
	}
}
