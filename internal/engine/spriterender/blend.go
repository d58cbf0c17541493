package spriterender

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Faultbox/pyre/internal/engine/particle"
)

// style is how one batch of sprites is submitted.
type style struct {
	blend ebiten.Blend
	// fullColor draws vertex colors with alpha 1 so the blend ignores coverage.
	fullColor bool
	// premultiplied treats vertex colors as already multiplied by alpha.
	premultiplied bool
}

var multiply = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

var subtract = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationSubtract,
	BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// styleFor maps a particle blend mode to ebiten state. ebiten images hold
// premultiplied colors, so source-over is plain alpha blending and lighter
// is additive.
func styleFor(mode particle.BlendMode) style {
	switch mode {
	case particle.BlendAdditive:
		return style{blend: ebiten.BlendLighter}
	case particle.BlendMultiplied:
		return style{blend: multiply}
	case particle.BlendAddColors:
		return style{blend: ebiten.BlendLighter, fullColor: true}
	case particle.BlendSubtractColors:
		return style{blend: subtract, fullColor: true}
	case particle.BlendAlphaPremultiply:
		return style{blend: ebiten.BlendSourceOver, premultiplied: true}
	default:
		return style{blend: ebiten.BlendSourceOver}
	}
}
