package particle

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScalarRange is a uniform interval of float32 values.
// Inverted bounds are swapped when sampled.
type ScalarRange struct {
	Min, Max float32
}

// Fixed returns a range that always samples v.
func Fixed(v float32) ScalarRange {
	return ScalarRange{Min: v, Max: v}
}

// Sample returns a uniform value in [Min, Max].
func (r ScalarRange) Sample(rng *rand.Rand) float32 {
	lo, hi := r.Min, r.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return lo
	}
	return lo + rng.Float32()*(hi-lo)
}

// Inverted reports whether Min > Max.
func (r ScalarRange) Inverted() bool {
	return r.Min > r.Max
}

// IntRange is a uniform interval of integers, both ends inclusive.
type IntRange struct {
	Min, Max int
}

// Sample returns a uniform integer in [Min, Max].
func (r IntRange) Sample(rng *rand.Rand) int {
	lo, hi := r.Min, r.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// Inverted reports whether Min > Max.
func (r IntRange) Inverted() bool {
	return r.Min > r.Max
}

// UnmarshalYAML accepts "[min max]", a single number or {min, max}.
func (r *ScalarRange) UnmarshalYAML(node *yaml.Node) error {
	lo, hi, err := decodeRange(node, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 32)
	})
	if err != nil {
		return err
	}
	r.Min, r.Max = float32(lo), float32(hi)
	return nil
}

// MarshalYAML writes the bracket form.
func (r ScalarRange) MarshalYAML() (any, error) {
	return fmt.Sprintf("[%g %g]", r.Min, r.Max), nil
}

// UnmarshalYAML accepts "[min max]", a single number or {min, max}.
func (r *IntRange) UnmarshalYAML(node *yaml.Node) error {
	lo, hi, err := decodeRange(node, func(s string) (float64, error) {
		n, err := strconv.Atoi(s)
		return float64(n), err
	})
	if err != nil {
		return err
	}
	r.Min, r.Max = int(lo), int(hi)
	return nil
}

// MarshalYAML writes the bracket form.
func (r IntRange) MarshalYAML() (any, error) {
	return fmt.Sprintf("[%d %d]", r.Min, r.Max), nil
}

func decodeRange(node *yaml.Node, parse func(string) (float64, error)) (lo, hi float64, err error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return parseRangeString(node.Value, parse)

	case yaml.SequenceNode:
		if len(node.Content) != 2 {
			return 0, 0, fmt.Errorf("line %d: range needs 2 values, got %d", node.Line, len(node.Content))
		}
		if lo, err = parse(node.Content[0].Value); err != nil {
			return 0, 0, fmt.Errorf("line %d: range min: %w", node.Line, err)
		}
		if hi, err = parse(node.Content[1].Value); err != nil {
			return 0, 0, fmt.Errorf("line %d: range max: %w", node.Line, err)
		}
		return lo, hi, nil

	case yaml.MappingNode:
		var m struct {
			Min *string `yaml:"min"`
			Max *string `yaml:"max"`
		}
		if err := node.Decode(&m); err != nil {
			return 0, 0, err
		}
		if m.Min == nil || m.Max == nil {
			return 0, 0, fmt.Errorf("line %d: range needs both min and max", node.Line)
		}
		if lo, err = parse(*m.Min); err != nil {
			return 0, 0, fmt.Errorf("line %d: range min: %w", node.Line, err)
		}
		if hi, err = parse(*m.Max); err != nil {
			return 0, 0, fmt.Errorf("line %d: range max: %w", node.Line, err)
		}
		return lo, hi, nil
	}
	return 0, 0, fmt.Errorf("line %d: cannot decode range", node.Line)
}

// parseRangeString handles "[1 2]", "1 2", "[1, 2]" and "1.5".
func parseRangeString(s string, parse func(string) (float64, error)) (lo, hi float64, err error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })

	switch len(fields) {
	case 1:
		v, err := parse(fields[0])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range %q: %w", s, err)
		}
		return v, v, nil
	case 2:
		if lo, err = parse(fields[0]); err != nil {
			return 0, 0, fmt.Errorf("invalid range min %q: %w", fields[0], err)
		}
		if hi, err = parse(fields[1]); err != nil {
			return 0, 0, fmt.Errorf("invalid range max %q: %w", fields[1], err)
		}
		return lo, hi, nil
	}
	return 0, 0, fmt.Errorf("invalid range %q", s)
}
