// Package main runs the particle demo as 2D sprites with ebiten.
package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/Faultbox/pyre/internal/config"
	"github.com/Faultbox/pyre/internal/demo"
	"github.com/Faultbox/pyre/internal/engine/audio"
	"github.com/Faultbox/pyre/internal/engine/debug"
	"github.com/Faultbox/pyre/internal/engine/picking"
	"github.com/Faultbox/pyre/internal/engine/scene"
	"github.com/Faultbox/pyre/internal/engine/spriterender"
	"github.com/Faultbox/pyre/internal/logger"
)

// Game implements ebiten.Game.
type Game struct {
	demo     *demo.Demo
	renderer *spriterender.Renderer
	capture  *debug.ScreenshotCapture

	dragging     bool
	lastX, lastY int
	width        int
	height       int
}

func (g *Game) Update() error {
	sc := g.demo.Scene

	for key, a := range spriterender.Bindings {
		if spriterender.Fires(a, inpututil.KeyPressDuration(key)) {
			sc.Apply(a)
		}
	}
	if sc.Quit() {
		return ebiten.Termination
	}

	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging {
			sc.Camera.HandleDrag(float32(x-g.lastX), float32(y-g.lastY))
		}
		g.dragging = true
	} else {
		g.dragging = false
	}
	g.lastX, g.lastY = x, y

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		nx, ny := picking.NDC(float32(x), float32(y), float32(g.width), float32(g.height))
		sc.PlaceOrigin(nx, ny, g.aspect())
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		sc.Camera.HandleZoom(float32(wy))
	}

	sc.Update(1 / float32(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	sc := g.demo.Scene
	g.renderer.Begin(screen, sc.Camera.ViewProjection(g.aspect()))
	if sc.ShowGrid() {
		g.renderer.DrawGrid()
	}
	sc.Draw(g.renderer)
	g.renderer.End()

	if sc.TakeCapture() {
		if path, err := g.capture.Save(screen); err != nil {
			logger.Error("screenshot failed", zap.Error(err))
		} else {
			logger.Info("screenshot saved", zap.String("path", path))
		}
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s | %.0f fps\n%s", g.demo.Status(), ebiten.ActualFPS(), scene.HelpText))
}

func (g *Game) aspect() float32 {
	return float32(g.width) / float32(max(g.height, 1))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

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

	if err := run(cfg); err != nil {
		logger.Error("sprite demo failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	bg, err := demo.Background(cfg.Graphics.Background)
	if err != nil {
		return err
	}
	r := spriterender.New(bg)
	r.SetGrid(debug.GridLines(cfg.Graphics.GridSlices, debug.DefaultGridSpacing))

	d, err := demo.Setup(cfg, r.LoadModel)
	if err != nil {
		return err
	}
	defer d.Close()

	if cfg.Audio.Enabled {
		snd := audio.New()
		if err := snd.Init(); err != nil {
			logger.Warn("audio disabled", zap.Error(err))
		} else {
			defer snd.Close()
			snd.SetMasterVolume(cfg.Audio.MasterVolume)
			snd.SetSFXVolume(cfg.Audio.SFXVolume)
			snd.SetAmbienceEnabled(cfg.Audio.Ambience)
			d.Scene.SetSounds(snd)
		}
	}

	ebiten.SetWindowSize(cfg.Graphics.Width, cfg.Graphics.Height)
	ebiten.SetWindowTitle("pyre (sprites)")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Graphics.Fullscreen)
	ebiten.SetVsyncEnabled(cfg.Graphics.VSync)

	g := &Game{
		demo:     d,
		renderer: r,
		capture:  debug.NewScreenshotCapture("screenshots", "pyre-sprite"),
		width:    cfg.Graphics.Width,
		height:   cfg.Graphics.Height,
	}
	return ebiten.RunGame(g)
}
