package particle

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Color is an 8-bit RGBA tint. Alpha is straight, not premultiplied.
type Color struct {
	R, G, B, A uint8
}

// Common tints.
var (
	White  = Color{255, 255, 255, 255}
	Black  = Color{0, 0, 0, 255}
	Orange = Color{255, 161, 0, 255}
	Yellow = Color{253, 249, 0, 255}
)

// LinearFade interpolates from c1 to c2 per channel, f in [0, 1].
// Each channel is truncated toward zero.
func LinearFade(c1, c2 Color, f float32) Color {
	return Color{
		R: lerp8(c1.R, c2.R, f),
		G: lerp8(c1.G, c2.G, f),
		B: lerp8(c1.B, c2.B, f),
		A: lerp8(c1.A, c2.A, f),
	}
}

func lerp8(a, b uint8, f float32) uint8 {
	return uint8((float32(b)-float32(a))*f + float32(a))
}

// NRGBA converts to the standard library color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Floats returns the channels scaled to [0, 1].
func (c Color) Floats() (r, g, b, a float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}

// Hex formats the color as #rrggbbaa.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor parses #rrggbb (opaque) or #rrggbbaa.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid alpha in color %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	if len(s) != 7 {
		return Color{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}
	cc, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := cc.RGB255()
	return Color{R: r, G: g, B: b, A: alpha}, nil
}

// UnmarshalYAML decodes a hex string.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

// MarshalYAML encodes as #rrggbbaa.
func (c Color) MarshalYAML() (any, error) {
	return c.Hex(), nil
}
