package termrender

import (
	"github.com/gdamore/tcell/v2"

	"github.com/Faultbox/pyre/internal/engine/scene"
)

var runeActions = map[rune]scene.Action{
	' ': scene.ActionBurst,
	's': scene.ActionToggleEmission,
	'g': scene.ActionToggleGrid,
	'r': scene.ActionResetCamera,
	'q': scene.ActionQuit,
}

var keyActions = map[tcell.Key]scene.Action{
	tcell.KeyLeft:   scene.ActionOriginLeft,
	tcell.KeyRight:  scene.ActionOriginRight,
	tcell.KeyUp:     scene.ActionOriginForward,
	tcell.KeyDown:   scene.ActionOriginBack,
	tcell.KeyPgUp:   scene.ActionOriginUp,
	tcell.KeyPgDn:   scene.ActionOriginDown,
	tcell.KeyEscape: scene.ActionQuit,
	tcell.KeyCtrlC:  scene.ActionQuit,
}

// ActionFor maps a key press to a scene action, or ActionNone.
func ActionFor(ev *tcell.EventKey) scene.Action {
	if ev.Key() == tcell.KeyRune {
		return runeActions[ev.Rune()]
	}
	return keyActions[ev.Key()]
}
