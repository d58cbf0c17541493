package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/pyre/internal/engine/particle"
)

// blendState is the GL equation and factors for one blend mode.
type blendState struct {
	equation uint32
	src, dst uint32
}

// blendFor maps a particle blend mode to GL state. Unknown modes fall back
// to straight alpha.
func blendFor(mode particle.BlendMode) blendState {
	switch mode {
	case particle.BlendAdditive:
		return blendState{gl.FUNC_ADD, gl.SRC_ALPHA, gl.ONE}
	case particle.BlendMultiplied:
		return blendState{gl.FUNC_ADD, gl.DST_COLOR, gl.ONE_MINUS_SRC_ALPHA}
	case particle.BlendAddColors:
		return blendState{gl.FUNC_ADD, gl.ONE, gl.ONE}
	case particle.BlendSubtractColors:
		return blendState{gl.FUNC_SUBTRACT, gl.ONE, gl.ONE}
	case particle.BlendAlphaPremultiply:
		return blendState{gl.FUNC_ADD, gl.ONE, gl.ONE_MINUS_SRC_ALPHA}
	default:
		return blendState{gl.FUNC_ADD, gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA}
	}
}

// blendStack tracks nested BeginBlendMode calls so EndBlendMode can restore
// the enclosing mode.
type blendStack struct {
	modes []particle.BlendMode
}

func (s *blendStack) push(mode particle.BlendMode) {
	s.modes = append(s.modes, mode)
}

// pop removes the top mode and returns the one now in effect. ok is false
// when the stack is empty afterwards.
func (s *blendStack) pop() (mode particle.BlendMode, ok bool) {
	if len(s.modes) > 0 {
		s.modes = s.modes[:len(s.modes)-1]
	}
	if len(s.modes) == 0 {
		return particle.BlendAlpha, false
	}
	return s.modes[len(s.modes)-1], true
}

func (s *blendStack) depth() int { return len(s.modes) }

func applyBlend(mode particle.BlendMode) {
	st := blendFor(mode)
	gl.BlendEquation(st.equation)
	gl.BlendFunc(st.src, st.dst)
}
