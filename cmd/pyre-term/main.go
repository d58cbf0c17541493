// Package main runs the particle demo in a terminal.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/pyre/internal/config"
	"github.com/Faultbox/pyre/internal/demo"
	"github.com/Faultbox/pyre/internal/engine/audio"
	"github.com/Faultbox/pyre/internal/engine/debug"
	"github.com/Faultbox/pyre/internal/engine/picking"
	"github.com/Faultbox/pyre/internal/engine/scene"
	"github.com/Faultbox/pyre/internal/engine/termrender"
	"github.com/Faultbox/pyre/internal/logger"
)

const frameTime = 33 * time.Millisecond // ~30 FPS

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Console logging would draw over the screen.
	logFile := cfg.Logging.LogFile
	if logFile == "" {
		logFile = "pyre-term.log"
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, logger.DefaultFileConfig(logFile), false); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("terminal demo failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	bg, err := demo.Background(cfg.Graphics.Background)
	if err != nil {
		return err
	}
	r := termrender.New(screen, bg)
	r.SetGrid(debug.GridLines(cfg.Graphics.GridSlices, debug.DefaultGridSpacing))

	d, err := demo.Setup(cfg, r.LoadModel)
	if err != nil {
		return err
	}
	defer d.Close()
	sc := d.Scene

	if cfg.Audio.Enabled {
		snd := audio.New()
		if err := snd.Init(); err != nil {
			logger.Warn("audio disabled", zap.Error(err))
		} else {
			defer snd.Close()
			snd.SetMasterVolume(cfg.Audio.MasterVolume)
			snd.SetSFXVolume(cfg.Audio.SFXVolume)
			snd.SetAmbienceEnabled(cfg.Audio.Ambience)
			sc.SetSounds(snd)
		}
	}

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	hud := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	last := time.Now()

	for !sc.Quit() {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if a := termrender.ActionFor(ev); a != scene.ActionNone {
					sc.Apply(a)
				} else {
					orbit(sc, ev)
				}
			case *tcell.EventMouse:
				if ev.Buttons()&tcell.ButtonSecondary != 0 {
					x, y := ev.Position()
					w, h := r.Size()
					// Aim at the middle of the cell.
					nx, ny := picking.NDC(float32(x)+0.5, float32(y)+0.5, float32(w), float32(h))
					sc.PlaceOrigin(nx, ny, r.Aspect())
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case now := <-ticker.C:
			sc.Update(float32(now.Sub(last).Seconds()))
			last = now

			r.Begin(sc.Camera.ViewProjection(r.Aspect()))
			if sc.ShowGrid() {
				r.DrawGrid()
			}
			sc.Draw(r)
			r.End()
			r.DrawText(0, 0, d.Status(), hud)
			_, h := r.Size()
			r.DrawText(0, h-1, scene.HelpText+" | hjkl orbit | +/- zoom | right click place", hud)
			r.Show()
		}
	}
	return nil
}

// orbit handles the camera keys, which have no scene action.
func orbit(sc *scene.Scene, ev *tcell.EventKey) {
	const step = 40 // pixels of equivalent mouse drag
	if ev.Key() != tcell.KeyRune {
		return
	}
	cam := sc.Camera
	switch ev.Rune() {
	case 'h':
		cam.HandleDrag(-step, 0)
	case 'l':
		cam.HandleDrag(step, 0)
	case 'k':
		cam.HandleDrag(0, step)
	case 'j':
		cam.HandleDrag(0, -step)
	case '+', '=':
		cam.HandleZoom(1)
	case '-':
		cam.HandleZoom(-1)
	}
}
