// Package audio provides procedural fire sounds that follow the particle
// simulation: a crackle per burst and a roar that tracks the active count.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"

	"github.com/Faultbox/pyre/internal/logger"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// maxCrackles bounds how many burst sounds can overlap.
const maxCrackles = 8

// Manager plays effect sounds. All methods are no-ops until Init succeeds.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	// Ambience
	rumble    *Rumble
	ambCtrl   *beep.Ctrl
	ambVolume *effects.Volume

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	ambVolLevel  float64
	sfxVolLevel  float64

	// SFX mixer for concurrent sound effects
	sfxMixer *beep.Mixer
	seed     uint64
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		masterVolume: 1.0,
		ambVolLevel:  0.6,
		sfxVolLevel:  1.0,
		sfxMixer:     &beep.Mixer{},
	}
}

// Init opens the speaker and starts the (silent) ambience.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	m.sampleRate = DefaultSampleRate
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	m.rumble = NewRumble(m.sampleRate, 1)
	m.ambCtrl = &beep.Ctrl{Streamer: m.rumble}
	m.ambVolume = &effects.Volume{Streamer: m.ambCtrl, Base: 10}
	m.updateAmbienceVolume()

	speaker.Play(beep.Mix(m.sfxMixer, m.ambVolume))

	m.initialized = true
	logger.Info("audio initialized", zap.Int("sample_rate", int(m.sampleRate)))
	return nil
}

// Close shuts down the audio system.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.initialized = false
}

// IsInitialized returns whether the audio system is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
	m.updateAmbienceVolume()
}

// SetAmbienceVolume sets the roar volume (0.0 to 1.0).
func (m *Manager) SetAmbienceVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ambVolLevel = clamp(vol, 0, 1)
	m.updateAmbienceVolume()
}

// SetSFXVolume sets the crackle volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolLevel = clamp(vol, 0, 1)
}

// GetMasterVolume returns the master volume.
func (m *Manager) GetMasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// GetAmbienceVolume returns the roar volume.
func (m *Manager) GetAmbienceVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ambVolLevel
}

// GetSFXVolume returns the crackle volume.
func (m *Manager) GetSFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxVolLevel
}

// SetAmbienceEnabled pauses or resumes the roar.
func (m *Manager) SetAmbienceEnabled(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ambCtrl == nil {
		return
	}
	speaker.Lock()
	m.ambCtrl.Paused = !on
	speaker.Unlock()
}

func (m *Manager) updateAmbienceVolume() {
	if m.ambVolume == nil {
		return
	}
	vol := m.masterVolume * m.ambVolLevel
	speaker.Lock()
	m.ambVolume.Silent = vol <= 0
	m.ambVolume.Volume = volumeToDb(vol) / 20 // 10^(dB/20) == vol
	speaker.Unlock()
}

// Burst plays a crackle scaled to the number of particles spawned.
func (m *Manager) Burst(spawned int) {
	if spawned <= 0 {
		return
	}

	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return
	}
	m.seed++
	seed := m.seed
	vol := m.masterVolume * m.sfxVolLevel
	m.mu.Unlock()

	if vol <= 0 {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()
	if m.sfxMixer.Len() >= maxCrackles {
		return
	}
	d, density := crackleShape(spawned)
	s := NewCrackle(m.sampleRate, d, density, seed)
	m.sfxMixer.Add(&effects.Volume{Streamer: s, Base: 10, Volume: volumeToDb(vol) / 20})
}

// crackleShape maps a burst size to duration and pop density.
func crackleShape(spawned int) (time.Duration, float64) {
	n := float64(min(spawned, 200))
	d := 150*time.Millisecond + time.Duration(n*2)*time.Millisecond
	return d, 40 + n*2
}

// Level sets the roar loudness from the fraction of the pool in use.
func (m *Manager) Level(active, capacity int) {
	m.mu.RLock()
	r := m.rumble
	m.mu.RUnlock()
	if r == nil {
		return
	}
	r.SetLevel(levelFor(active, capacity))
}

// levelFor is sqrt(active/capacity) so small fires are still audible.
func levelFor(active, capacity int) float64 {
	if capacity <= 0 || active <= 0 {
		return 0
	}
	return math.Sqrt(clamp(float64(active)/float64(capacity), 0, 1))
}

// volumeToDb converts a 0-1 volume to decibels.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100 // Effectively silent
	}
	// vol=1 -> 0dB, vol=0.5 -> -6dB, vol=0.25 -> -12dB
	return 20 * math.Log10(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
