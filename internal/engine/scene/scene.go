// Package scene drives the demo effect: it owns the particle system and the
// orbit camera and turns user actions into changes to both.
package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/pyre/internal/engine/camera"
	"github.com/Faultbox/pyre/internal/engine/particle"
	"github.com/Faultbox/pyre/internal/logger"
	"github.com/Faultbox/pyre/pkg/math"
)

// Sounds reacts to simulation events. audio.Manager implements it.
type Sounds interface {
	Burst(spawned int)
	Level(active, capacity int)
}

// Config holds scene settings.
type Config struct {
	// OriginStep is how far one move action shifts the emitter origin.
	OriginStep float32
	// MaxFrameTime caps dt in seconds so a stalled frame doesn't dump a
	// burst of backlog particles. 0 disables the cap.
	MaxFrameTime float32
	ShowGrid     bool
}

// Scene is the state shared by every demo frontend.
type Scene struct {
	System *particle.System
	Camera *camera.OrbitCamera

	cfg      Config
	origin   math.Vec3
	showGrid bool
	sounds   Sounds
	active   int
	quit     bool
	capture  bool
}

// New wraps a system and camera. The origin starts at the first emitter's.
func New(sys *particle.System, cam *camera.OrbitCamera, cfg Config) *Scene {
	s := &Scene{
		System:   sys,
		Camera:   cam,
		cfg:      cfg,
		showGrid: cfg.ShowGrid,
	}
	if es := sys.Emitters(); len(es) > 0 {
		s.origin = es[0].Origin()
	}
	return s
}

// SetSounds attaches an audio sink. Nil detaches it.
func (s *Scene) SetSounds(snd Sounds) {
	s.sounds = snd
}

// Apply performs one action.
func (s *Scene) Apply(a Action) {
	switch a {
	case ActionBurst:
		n := s.System.Burst()
		if s.sounds != nil {
			s.sounds.Burst(n)
		}
	case ActionToggleEmission:
		if s.System.IsEmitting() {
			s.System.Stop()
		} else {
			s.System.Start()
		}
	case ActionOriginLeft:
		s.moveOrigin(math.Vec3{X: -1})
	case ActionOriginRight:
		s.moveOrigin(math.Vec3{X: 1})
	case ActionOriginForward:
		s.moveOrigin(math.Vec3{Z: -1})
	case ActionOriginBack:
		s.moveOrigin(math.Vec3{Z: 1})
	case ActionOriginUp:
		s.moveOrigin(math.Vec3{Y: 1})
	case ActionOriginDown:
		s.moveOrigin(math.Vec3{Y: -1})
	case ActionToggleGrid:
		s.showGrid = !s.showGrid
	case ActionResetCamera:
		if s.Camera != nil {
			s.Camera.Reset()
		}
	case ActionScreenshot:
		s.capture = true
	case ActionQuit:
		s.quit = true
	default:
		return
	}
	logger.Debug("action", zap.Stringer("action", a))
}

func (s *Scene) moveOrigin(dir math.Vec3) {
	s.origin = s.origin.Add(dir.Scale(s.cfg.OriginStep))
	s.System.SetOrigin(s.origin)
}

// PlaceOrigin moves the origin to where the camera ray through a point in
// normalized device coordinates meets the origin's horizontal plane.
// It reports false when the ray misses.
func (s *Scene) PlaceOrigin(ndcX, ndcY, aspect float32) bool {
	if s.Camera == nil {
		return false
	}
	p, ok := s.Camera.Ray(ndcX, ndcY, aspect).IntersectPlaneY(s.origin.Y)
	if !ok {
		return false
	}
	s.origin = p
	s.System.SetOrigin(p)
	logger.Debug("origin placed", zap.Float32("x", p.X), zap.Float32("z", p.Z))
	return true
}

// Update advances the simulation and returns the active particle count.
func (s *Scene) Update(dt float32) int {
	if s.cfg.MaxFrameTime > 0 && dt > s.cfg.MaxFrameTime {
		dt = s.cfg.MaxFrameTime
	}
	s.active = s.System.Update(dt)
	if s.sounds != nil {
		s.sounds.Level(s.active, s.System.Capacity())
	}
	return s.active
}

// Draw submits the particles. Grid drawing is left to the frontend.
func (s *Scene) Draw(r particle.Renderer) {
	s.System.Draw(r)
}

// Active returns the count from the last Update.
func (s *Scene) Active() int { return s.active }

// Origin returns the current emitter origin.
func (s *Scene) Origin() math.Vec3 { return s.origin }

// ShowGrid reports whether the ground grid should be drawn.
func (s *Scene) ShowGrid() bool { return s.showGrid }

// Quit reports whether a quit action was applied.
func (s *Scene) Quit() bool { return s.quit }

// TakeCapture reports and clears a pending screenshot request.
func (s *Scene) TakeCapture() bool {
	c := s.capture
	s.capture = false
	return c
}
