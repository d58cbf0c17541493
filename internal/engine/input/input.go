// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/pyre/internal/engine/scene"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Keycode
	Width  int
	Height int
	MouseX int
	MouseY int
	// DeltaX/DeltaY hold relative motion for EventMouseMove.
	DeltaX int
	DeltaY int
	// Wheel is the vertical scroll amount for EventMouseWheel.
	Wheel  float32
	Button uint8
	// Dragging is set on EventMouseMove while the left button is held.
	Dragging bool
}

// Mouse buttons as reported in Event.Button.
const (
	ButtonLeft  = sdl.BUTTON_LEFT
	ButtonRight = sdl.BUTTON_RIGHT
)

// Bindings maps keys to scene actions.
type Bindings map[sdl.Keycode]scene.Action

// DefaultBindings returns the demo key layout.
func DefaultBindings() Bindings {
	return Bindings{
		sdl.K_SPACE:    scene.ActionBurst,
		sdl.K_s:        scene.ActionToggleEmission,
		sdl.K_LEFT:     scene.ActionOriginLeft,
		sdl.K_RIGHT:    scene.ActionOriginRight,
		sdl.K_UP:       scene.ActionOriginForward,
		sdl.K_DOWN:     scene.ActionOriginBack,
		sdl.K_PAGEUP:   scene.ActionOriginUp,
		sdl.K_PAGEDOWN: scene.ActionOriginDown,
		sdl.K_g:        scene.ActionToggleGrid,
		sdl.K_r:        scene.ActionResetCamera,
		sdl.K_F12:      scene.ActionScreenshot,
		sdl.K_ESCAPE:   scene.ActionQuit,
	}
}

// Input handles all input processing.
type Input struct {
	events   []Event
	actions  []scene.Action
	bindings Bindings
	leftDown bool
}

// New creates a new input handler.
func New(bindings Bindings) *Input {
	return &Input{
		events:   make([]Event, 0, 16),
		actions:  make([]scene.Action, 0, 8),
		bindings: bindings,
	}
}

// Update polls SDL events and converts them to events and actions.
// Returns true if the window was closed.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.actions = i.actions[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Sym})
				// Held keys repeat only for origin movement.
				if a, ok := i.bindings[e.Keysym.Sym]; ok && (e.Repeat == 0 || isMove(a)) {
					i.actions = append(i.actions, a)
				}
			} else if e.Type == sdl.KEYUP {
				i.events = append(i.events, Event{Type: EventKeyUp, Key: e.Keysym.Sym})
			}

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:     EventMouseMove,
				MouseX:   int(e.X),
				MouseY:   int(e.Y),
				DeltaX:   int(e.XRel),
				DeltaY:   int(e.YRel),
				Dragging: i.leftDown,
			})

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{Type: EventMouseWheel, Wheel: float32(e.Y)})

		case *sdl.MouseButtonEvent:
			pressed := e.State == sdl.PRESSED
			if e.Button == ButtonLeft {
				i.leftDown = pressed
			}
			t := EventMouseUp
			if pressed {
				t = EventMouseDown
			}
			i.events = append(i.events, Event{
				Type:   t,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			})
		}
	}

	return false
}

func isMove(a scene.Action) bool {
	return a >= scene.ActionOriginLeft && a <= scene.ActionOriginDown
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Actions returns the bound actions triggered during the last Update.
func (i *Input) Actions() []scene.Action {
	return i.actions
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(key sdl.Keycode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}
