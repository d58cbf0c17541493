package audio

import (
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
)

// crackle is a short burst of random pops, each a decaying noise click.
type crackle struct {
	rng      *rand.Rand
	remain   int
	popRate  float64 // pops per sample
	decay    float64 // per-sample amplitude multiplier
	amp      float64
	lowpass  float64
	filtered float64
}

// NewCrackle returns a finite crackle lasting d. density is pops per second.
func NewCrackle(sr beep.SampleRate, d time.Duration, density float64, seed uint64) beep.Streamer {
	return &crackle{
		rng:     rand.New(rand.NewPCG(seed, 0xc0ffee)),
		remain:  sr.N(d),
		popRate: density / float64(sr),
		// Each pop fades to ~1% in 15ms.
		decay:   math.Pow(0.01, 1/float64(sr.N(15*time.Millisecond))),
		lowpass: 0.35,
	}
}

func (c *crackle) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if c.remain <= 0 {
			return i, i > 0
		}
		if c.rng.Float64() < c.popRate {
			c.amp = 0.5 + 0.5*c.rng.Float64()
		}
		noise := (c.rng.Float64()*2 - 1) * c.amp
		c.filtered += c.lowpass * (noise - c.filtered)
		c.amp *= c.decay

		samples[i][0] = c.filtered
		samples[i][1] = c.filtered
		c.remain--
	}
	return len(samples), true
}

func (c *crackle) Err() error { return nil }

// Rumble is an endless low roar whose loudness follows SetLevel.
// It is safe to call SetLevel while the speaker is streaming.
type Rumble struct {
	rng    *rand.Rand
	target atomic.Uint64 // float64 bits
	level  float64
	glide  float64
	brown  float64
}

// NewRumble returns a silent rumble. Level changes glide over about 200ms.
func NewRumble(sr beep.SampleRate, seed uint64) *Rumble {
	return &Rumble{
		rng:   rand.New(rand.NewPCG(seed, 0xf1e)),
		glide: 1 / float64(sr.N(200*time.Millisecond)),
	}
}

// SetLevel sets the target loudness in [0, 1].
func (r *Rumble) SetLevel(level float64) {
	r.target.Store(math.Float64bits(clamp(level, 0, 1)))
}

// Level returns the target loudness.
func (r *Rumble) Level() float64 {
	return math.Float64frombits(r.target.Load())
}

func (r *Rumble) Stream(samples [][2]float64) (n int, ok bool) {
	target := r.Level()
	for i := range samples {
		r.level += (target - r.level) * r.glide
		// Brown noise: integrated white noise with a leak to stay bounded.
		r.brown = 0.98*r.brown + 0.02*(r.rng.Float64()*2-1)*3
		v := clamp(r.brown, -1, 1) * r.level
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (r *Rumble) Err() error { return nil }
