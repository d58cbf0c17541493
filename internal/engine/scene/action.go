package scene

// Action is a user command, independent of the input backend.
type Action int

const (
	ActionNone Action = iota
	ActionBurst
	ActionToggleEmission
	ActionOriginLeft
	ActionOriginRight
	ActionOriginForward
	ActionOriginBack
	ActionOriginUp
	ActionOriginDown
	ActionToggleGrid
	ActionResetCamera
	ActionScreenshot
	ActionQuit
)

var actionNames = [...]string{
	ActionNone:           "none",
	ActionBurst:          "burst",
	ActionToggleEmission: "toggle_emission",
	ActionOriginLeft:     "origin_left",
	ActionOriginRight:    "origin_right",
	ActionOriginForward:  "origin_forward",
	ActionOriginBack:     "origin_back",
	ActionOriginUp:       "origin_up",
	ActionOriginDown:     "origin_down",
	ActionToggleGrid:     "toggle_grid",
	ActionResetCamera:    "reset_camera",
	ActionScreenshot:     "screenshot",
	ActionQuit:           "quit",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// HelpText lists the default bindings shared by the demos.
const HelpText = "Space burst | S start/stop | arrows/PgUp/PgDn move | G grid | R reset camera | Esc quit"
