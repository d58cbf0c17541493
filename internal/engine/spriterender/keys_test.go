package spriterender

import (
	"testing"

	"github.com/Faultbox/pyre/internal/engine/scene"
)

func TestFires(t *testing.T) {
	tests := []struct {
		action scene.Action
		ticks  int
		want   bool
	}{
		{scene.ActionBurst, 0, false},
		{scene.ActionBurst, 1, true},
		{scene.ActionBurst, 2, false},
		{scene.ActionBurst, repeatDelay, false},
		{scene.ActionOriginLeft, 1, true},
		{scene.ActionOriginLeft, 2, false},
		{scene.ActionOriginLeft, repeatDelay, true},
		{scene.ActionOriginDown, repeatDelay + 1, false},
		{scene.ActionOriginDown, repeatDelay + repeatInterval, true},
	}

	for _, tt := range tests {
		if got := Fires(tt.action, tt.ticks); got != tt.want {
			t.Errorf("Fires(%v, %d) = %v, want %v", tt.action, tt.ticks, got, tt.want)
		}
	}
}

func TestBindingsCoverSceneActions(t *testing.T) {
	bound := make(map[scene.Action]bool)
	for _, a := range Bindings {
		bound[a] = true
	}
	for a := scene.ActionBurst; a <= scene.ActionQuit; a++ {
		if !bound[a] {
			t.Errorf("action %v has no key", a)
		}
	}
}
