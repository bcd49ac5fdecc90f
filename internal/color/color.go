// Package color holds the color math every theme computation is built on:
// hex/RGB/HSL conversion, lightness adjustment and WCAG contrast.
package color

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColorFormat is returned for malformed hex input. Only the parse
// boundary returns it; everything past ParseHex works on valid colors.
var ErrInvalidColorFormat = errors.New("invalid color format")

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// RGB is an 8-bit sRGB triple.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSL holds hue in degrees [0,360) and saturation/lightness in [0,1].
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// Color is a single sRGB color. The canonical storage is the 8-bit triple so
// the hex, RGB and HSL views always agree to rounding.
type Color struct {
	rgb RGB
}

// Black and White are the two text colors contrast checks fall back to.
var (
	Black = Color{rgb: RGB{0, 0, 0}}
	White = Color{rgb: RGB{255, 255, 255}}
)

// IsHexColor reports whether value is a #RGB or #RRGGBB literal.
func IsHexColor(value string) bool {
	return hexColorRegex.MatchString(strings.TrimSpace(value))
}

// ParseHex parses #RGB or #RRGGBB, case-insensitive, ignoring surrounding whitespace.
func ParseHex(value string) (Color, error) {
	trimmed := strings.TrimSpace(value)
	if !hexColorRegex.MatchString(trimmed) {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, value)
	}
	digits := trimmed[1:]
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	c, err := colorful.Hex("#" + strings.ToLower(digits))
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, value)
	}
	return fromColorful(c), nil
}

// MustParseHex is ParseHex for package-level constants. It panics on bad input.
func MustParseHex(value string) Color {
	c, err := ParseHex(value)
	if err != nil {
		panic(err)
	}
	return c
}

func FromRGB(r, g, b uint8) Color {
	return Color{rgb: RGB{R: r, G: g, B: b}}
}

// FromHSL builds a color from HSL. Hue wraps modulo 360; saturation and
// lightness are clamped to [0,1].
func FromHSL(h, s, l float64) Color {
	return fromColorful(colorful.Hsl(normalizeHue(h), clamp01(s), clamp01(l)))
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{rgb: RGB{R: r, G: g, B: b}}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.rgb.R) / 255,
		G: float64(c.rgb.G) / 255,
		B: float64(c.rgb.B) / 255,
	}
}

// Hex renders the color as lowercase #rrggbb.
func (c Color) Hex() string {
	return c.colorful().Hex()
}

func (c Color) RGB() RGB {
	return c.rgb
}

func (c Color) HSL() HSL {
	h, s, l := c.colorful().Hsl()
	return HSL{H: normalizeHue(h), S: s, L: l}
}

func (c Color) String() string {
	return c.Hex()
}

// MarshalText lets colors appear as hex strings in JSON and YAML output.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// HexToHSL parses a hex literal and returns its HSL view.
func HexToHSL(value string) (HSL, error) {
	c, err := ParseHex(value)
	if err != nil {
		return HSL{}, err
	}
	return c.HSL(), nil
}

// HSLToHex is total: out-of-range components are wrapped or clamped first.
func HSLToHex(hsl HSL) string {
	return FromHSL(hsl.H, hsl.S, hsl.L).Hex()
}

// WithHue returns the color rotated to hue h, keeping saturation and lightness.
func (c Color) WithHue(h float64) Color {
	hsl := c.HSL()
	return FromHSL(h, hsl.S, hsl.L)
}

// WithLightness returns the color with lightness l, keeping hue and saturation.
func (c Color) WithLightness(l float64) Color {
	hsl := c.HSL()
	return FromHSL(hsl.H, hsl.S, l)
}

// AdjustLightness shifts lightness by percent points. The amount is clamped to
// [-100,100] and the result to [0,1]; it never fails.
func AdjustLightness(c Color, percent float64) Color {
	if math.IsNaN(percent) {
		return c
	}
	percent = math.Max(-100, math.Min(100, percent))
	hsl := c.HSL()
	return FromHSL(hsl.H, hsl.S, hsl.L+percent/100)
}

func normalizeHue(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
