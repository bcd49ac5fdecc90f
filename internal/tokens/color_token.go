package tokens

import (
	"fmt"
	"sort"
	"strings"

	"github.com/codr1/brandkit/internal/color"
)

// ColorToken is either a Solid color or a Scaled set of related colors.
type ColorToken interface {
	// BaseColor is the color used when a single value is needed.
	BaseColor() color.Color
	treeValue() any
}

// Solid is a single color.
type Solid struct {
	Color color.Color
}

// Scaled is a color with its text color and lighter/darker variants.
type Scaled struct {
	Base       color.Color
	Foreground color.Color
	Light      color.Color
	Dark       color.Color
}

var scaledKeys = map[string]bool{"base": true, "foreground": true, "light": true, "dark": true}

// Lightness shift, in percent, for derived light and dark variants.
const scaledVariantShift = 20

func (s Solid) BaseColor() color.Color  { return s.Color }
func (s Scaled) BaseColor() color.Color { return s.Base }

func (s Solid) treeValue() any { return s.Color.Hex() }

func (s Scaled) treeValue() any {
	return Tree{
		"base":       s.Base.Hex(),
		"foreground": s.Foreground.Hex(),
		"light":      s.Light.Hex(),
		"dark":       s.Dark.Hex(),
	}
}

// NewScaled derives foreground, light and dark from base.
func NewScaled(base color.Color) Scaled {
	return Scaled{
		Base:       base,
		Foreground: color.BestTextColor(base),
		Light:      color.AdjustLightness(base, scaledVariantShift),
		Dark:       color.AdjustLightness(base, -scaledVariantShift),
	}
}

// ParseColorToken accepts a hex string or a {base, foreground, light, dark}
// object. Only base is required in the object form; missing members are
// derived from it. Malformed hex wraps color.ErrInvalidColorFormat, every
// other shape wraps ErrInvalidTokenShape.
func ParseColorToken(v any) (ColorToken, error) {
	if s, ok := v.(string); ok {
		c, err := color.ParseHex(s)
		if err != nil {
			return nil, err
		}
		return Solid{Color: c}, nil
	}

	obj, ok := AsTree(v)
	if !ok {
		return nil, fmt.Errorf("%w: expected hex string or object, got %T", ErrInvalidTokenShape, v)
	}

	var unknown []string
	for key := range obj {
		if !scaledKeys[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: unexpected keys %s", ErrInvalidTokenShape, strings.Join(unknown, ", "))
	}

	base, err := colorMember(obj, "base", true)
	if err != nil {
		return nil, err
	}
	token := NewScaled(*base)
	for key, dst := range map[string]*color.Color{
		"foreground": &token.Foreground,
		"light":      &token.Light,
		"dark":       &token.Dark,
	} {
		c, err := colorMember(obj, key, false)
		if err != nil {
			return nil, err
		}
		if c != nil {
			*dst = *c
		}
	}
	return token, nil
}

func colorMember(obj Tree, key string, required bool) (*color.Color, error) {
	raw, ok := obj[key]
	if !ok {
		if required {
			return nil, fmt.Errorf("%w: missing %q", ErrInvalidTokenShape, key)
		}
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a hex string, got %T", ErrInvalidTokenShape, key, raw)
	}
	c, err := color.ParseHex(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &c, nil
}
