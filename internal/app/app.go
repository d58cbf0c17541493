// Package app runs the SDL2 + OpenGL demo loop.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/pyre/internal/config"
	"github.com/Faultbox/pyre/internal/demo"
	"github.com/Faultbox/pyre/internal/engine/audio"
	"github.com/Faultbox/pyre/internal/engine/debug"
	"github.com/Faultbox/pyre/internal/engine/input"
	"github.com/Faultbox/pyre/internal/engine/picking"
	"github.com/Faultbox/pyre/internal/engine/renderer"
	"github.com/Faultbox/pyre/internal/engine/scene"
	"github.com/Faultbox/pyre/internal/engine/window"
	"github.com/Faultbox/pyre/internal/logger"
)

// App is the windowed demo.
type App struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	audio    *audio.Manager
	demo     *demo.Demo
	capture  *debug.ScreenshotCapture
}

// New creates the window, GL renderer, audio and scene.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing app",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("fullscreen", cfg.Graphics.Fullscreen),
	)

	a := &App{config: cfg}

	// Create window (this also creates OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:      "pyre",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	bg, err := demo.Background(cfg.Graphics.Background)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	w, h := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      w,
		Height:     h,
		Background: bg,
		GridSlices: cfg.Graphics.GridSlices,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.demo, err = demo.Setup(cfg, a.renderer.LoadModel)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Audio.Enabled {
		a.audio = audio.New()
		if err := a.audio.Init(); err != nil {
			// Audio is optional; keep running silently.
			logger.Warn("audio disabled", zap.Error(err))
		} else {
			a.audio.SetMasterVolume(cfg.Audio.MasterVolume)
			a.audio.SetSFXVolume(cfg.Audio.SFXVolume)
			a.audio.SetAmbienceEnabled(cfg.Audio.Ambience)
			a.demo.Scene.SetSounds(a.audio)
		}
	}

	a.input = input.New(input.DefaultBindings())
	a.capture = debug.NewScreenshotCapture("screenshots", "pyre")

	logger.Info("app initialized", zap.String("controls", scene.HelpText+" | drag orbit | wheel zoom | right click place"))
	return a, nil
}

// Run starts the main loop.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	sc := a.demo.Scene

	logger.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()
		for _, act := range a.input.Actions() {
			sc.Apply(act)
		}
		if sc.Quit() {
			a.running = false
			break
		}

		// 2. Update simulation
		sc.Update(float32(dt))

		// 3. Render
		a.render()
		if sc.TakeCapture() {
			a.screenshot()
		}

		// 4. Present (swap buffers)
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.window.SetTitle(a.demo.Status())
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("active", sc.Active()),
				zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleEvents() {
	cam := a.demo.Scene.Camera
	for _, ev := range a.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			// The drawable can differ from the window size on high-DPI displays.
			w, h := a.window.DrawableSize()
			a.renderer.Resize(w, h)
		case input.EventMouseMove:
			if ev.Dragging {
				cam.HandleDrag(float32(ev.DeltaX), float32(ev.DeltaY))
			}
		case input.EventMouseWheel:
			cam.HandleZoom(ev.Wheel)
		case input.EventMouseDown:
			if ev.Button == input.ButtonRight {
				// Mouse coordinates are in window units, not drawable pixels.
				w, h := a.window.GetSize()
				x, y := picking.NDC(float32(ev.MouseX), float32(ev.MouseY), float32(w), float32(h))
				a.demo.Scene.PlaceOrigin(x, y, a.renderer.Aspect())
			}
		}
	}
}

func (a *App) render() {
	sc := a.demo.Scene
	a.renderer.Begin(sc.Camera.ViewProjection(a.renderer.Aspect()))
	if sc.ShowGrid() {
		a.renderer.DrawGrid()
	}
	sc.Draw(a.renderer)
	a.renderer.End()
}

func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.capture.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases everything New created.
func (a *App) Close() {
	logger.Info("closing app")

	if a.audio != nil {
		a.audio.Close()
	}
	if a.demo != nil {
		a.demo.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
