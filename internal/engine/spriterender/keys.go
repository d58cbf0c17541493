package spriterender

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Faultbox/pyre/internal/engine/scene"
)

// Bindings maps keys to scene actions. Movement keys repeat while held.
var Bindings = map[ebiten.Key]scene.Action{
	ebiten.KeySpace:    scene.ActionBurst,
	ebiten.KeyS:        scene.ActionToggleEmission,
	ebiten.KeyLeft:     scene.ActionOriginLeft,
	ebiten.KeyRight:    scene.ActionOriginRight,
	ebiten.KeyUp:       scene.ActionOriginForward,
	ebiten.KeyDown:     scene.ActionOriginBack,
	ebiten.KeyPageUp:   scene.ActionOriginUp,
	ebiten.KeyPageDown: scene.ActionOriginDown,
	ebiten.KeyG:        scene.ActionToggleGrid,
	ebiten.KeyR:        scene.ActionResetCamera,
	ebiten.KeyF12:      scene.ActionScreenshot,
	ebiten.KeyEscape:   scene.ActionQuit,
}

// Repeat timing in ticks at 60 TPS.
const (
	repeatDelay    = 15
	repeatInterval = 3
)

// Fires reports whether a key held for d ticks triggers its action this tick.
// Non-movement actions fire only on the first tick.
func Fires(a scene.Action, d int) bool {
	if d == 1 {
		return true
	}
	if a < scene.ActionOriginLeft || a > scene.ActionOriginDown {
		return false
	}
	return d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}
