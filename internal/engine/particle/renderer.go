package particle

import "github.com/Faultbox/pyre/pkg/math"

// Model is an opaque handle to a mesh owned by a Renderer.
type Model uint32

// Renderer receives draw submissions. Calls arrive from a single goroutine,
// one BeginBlendMode/EndBlendMode pair per emitter.
type Renderer interface {
	BeginBlendMode(mode BlendMode)
	EndBlendMode()
	DrawModel(model Model, transform math.Mat4, tint Color)
}
