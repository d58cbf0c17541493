package particle

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// BlendMode selects how a particle's color combines with what is already drawn.
type BlendMode int

const (
	BlendAlpha BlendMode = iota
	BlendAdditive
	BlendMultiplied
	BlendAddColors
	BlendSubtractColors
	BlendAlphaPremultiply
)

var blendNames = [...]string{
	BlendAlpha:            "alpha",
	BlendAdditive:         "additive",
	BlendMultiplied:       "multiplied",
	BlendAddColors:        "add_colors",
	BlendSubtractColors:   "subtract_colors",
	BlendAlphaPremultiply: "alpha_premultiply",
}

func (m BlendMode) String() string {
	if m >= 0 && int(m) < len(blendNames) {
		return blendNames[m]
	}
	return fmt.Sprintf("BlendMode(%d)", int(m))
}

// ParseBlendMode returns the mode with the given name.
func ParseBlendMode(name string) (BlendMode, error) {
	for i, n := range blendNames {
		if n == name {
			return BlendMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown blend mode %q", name)
}

// UnmarshalYAML decodes a mode by name.
func (m *BlendMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	mode, err := ParseBlendMode(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*m = mode
	return nil
}

// MarshalYAML encodes a mode by name.
func (m BlendMode) MarshalYAML() (any, error) {
	return m.String(), nil
}
