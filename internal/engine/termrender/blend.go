package termrender

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/pyre/internal/engine/particle"
)

// composite blends src with coverage a over dst using the same factors the
// GL renderer uses, clamped to [0, 1].
func composite(dst, src colorful.Color, a float64, mode particle.BlendMode) colorful.Color {
	var out colorful.Color
	switch mode {
	case particle.BlendAdditive:
		out = colorful.Color{R: dst.R + src.R*a, G: dst.G + src.G*a, B: dst.B + src.B*a}
	case particle.BlendMultiplied:
		out = colorful.Color{
			R: src.R*dst.R + dst.R*(1-a),
			G: src.G*dst.G + dst.G*(1-a),
			B: src.B*dst.B + dst.B*(1-a),
		}
	case particle.BlendAddColors:
		out = colorful.Color{R: dst.R + src.R, G: dst.G + src.G, B: dst.B + src.B}
	case particle.BlendSubtractColors:
		out = colorful.Color{R: src.R - dst.R, G: src.G - dst.G, B: src.B - dst.B}
	case particle.BlendAlphaPremultiply:
		out = colorful.Color{R: src.R + dst.R*(1-a), G: src.G + dst.G*(1-a), B: src.B + dst.B*(1-a)}
	default:
		out = dst.BlendRgb(src, a)
	}
	return out.Clamped()
}

// toColorful converts a particle color, returning its alpha separately.
func toColorful(c particle.Color) (colorful.Color, float64) {
	r, g, b, a := c.Floats()
	return colorful.Color{R: float64(r), G: float64(g), B: float64(b)}, float64(a)
}
