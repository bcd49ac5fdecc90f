// Package palette derives a full color system from one brand color: a
// lightness ramp, hue-rotation harmonies, semantic roles and an accessibility
// classification of every shade.
package palette

import (
	"math"

	"github.com/codr1/brandkit/internal/color"
)

// ShadeStep labels one entry of the lightness ramp.
type ShadeStep int

// Shade ramp, lightest first. Each step fixes the HSL lightness the base
// color is swept to; hue and saturation never change.
var shadeTable = []struct {
	Step      ShadeStep
	Lightness float64
}{
	{50, 0.95},
	{100, 0.90},
	{200, 0.80},
	{300, 0.70},
	{400, 0.60},
	{500, 0.50},
	{600, 0.40},
	{700, 0.30},
	{800, 0.20},
	{900, 0.10},
	{950, 0.05},
}

const (
	AnalogousOffset     = 30.0
	ComplementaryOffset = 180.0
)

var (
	triadicOffsets  = []float64{120, 240}
	tetradicOffsets = []float64{90, 180, 270}

	// Tonal set for accents.
	monochromaticLightness = []float64{0.20, 0.35, 0.50, 0.65, 0.80}
)

// Role is a semantic color role.
type Role string

const (
	RoleSuccess Role = "success"
	RoleWarning Role = "warning"
	RoleError   Role = "error"
	RoleInfo    Role = "info"
)

// Roles lists semantic roles in output order.
var Roles = []Role{RoleSuccess, RoleWarning, RoleError, RoleInfo}

var roleAnchorHues = map[Role]float64{
	RoleSuccess: 142,
	RoleWarning: 38,
	RoleError:   0,
	RoleInfo:    217,
}

// Shade is one ramp entry.
type Shade struct {
	Step  ShadeStep   `json:"step"`
	Color color.Color `json:"color"`
}

// ShadeAccessibility classifies one shade against both text extremes.
type ShadeAccessibility struct {
	Step     ShadeStep                 `json:"step"`
	OnWhite  color.AccessibilityResult `json:"onWhite"`
	OnBlack  color.AccessibilityResult `json:"onBlack"`
	BestText color.Color               `json:"bestText"`
}

// Harmonies groups the hue-rotation families of a base color.
type Harmonies struct {
	Complementary []color.Color `json:"complementary"`
	Analogous     []color.Color `json:"analogous"`
	Triadic       []color.Color `json:"triadic"`
	Tetradic      []color.Color `json:"tetradic"`
	Monochromatic []color.Color `json:"monochromatic"`
}

// ColorPalette is derived in full from Base and treated as read-only. A new
// base color means a new palette, never an in-place edit.
type ColorPalette struct {
	Base          color.Color          `json:"base"`
	Foreground    color.Color          `json:"foreground"`
	Shades        []Shade              `json:"shades"`
	Harmonies     Harmonies            `json:"harmonies"`
	Semantic      map[Role]color.Color `json:"semantic"`
	Accessibility []ShadeAccessibility `json:"accessibility"`
}

// ShadeSteps returns the ramp labels, lightest first.
func ShadeSteps() []ShadeStep {
	steps := make([]ShadeStep, len(shadeTable))
	for i, entry := range shadeTable {
		steps[i] = entry.Step
	}
	return steps
}

// Generate builds the palette for base. Output depends on base alone.
func Generate(base color.Color) ColorPalette {
	shades := generateShades(base)
	return ColorPalette{
		Base:          base,
		Foreground:    color.BestTextColor(base),
		Shades:        shades,
		Harmonies:     generateHarmonies(base),
		Semantic:      generateSemantic(base),
		Accessibility: classify(shades),
	}
}

// Shade looks up a ramp entry by step.
func (p ColorPalette) Shade(step ShadeStep) (color.Color, bool) {
	for _, shade := range p.Shades {
		if shade.Step == step {
			return shade.Color, true
		}
	}
	return color.Color{}, false
}

func generateShades(base color.Color) []Shade {
	hsl := base.HSL()
	shades := make([]Shade, len(shadeTable))
	for i, entry := range shadeTable {
		shades[i] = Shade{
			Step:  entry.Step,
			Color: color.FromHSL(hsl.H, hsl.S, entry.Lightness),
		}
	}
	return shades
}

func generateHarmonies(base color.Color) Harmonies {
	hsl := base.HSL()

	rotate := func(offsets ...float64) []color.Color {
		out := make([]color.Color, len(offsets))
		for i, offset := range offsets {
			out[i] = color.FromHSL(hsl.H+offset, hsl.S, hsl.L)
		}
		return out
	}

	mono := make([]color.Color, len(monochromaticLightness))
	for i, l := range monochromaticLightness {
		mono[i] = color.FromHSL(hsl.H, hsl.S, l)
	}

	return Harmonies{
		Complementary: rotate(ComplementaryOffset),
		Analogous:     rotate(-AnalogousOffset, AnalogousOffset),
		Triadic:       rotate(triadicOffsets...),
		Tetradic:      rotate(tetradicOffsets...),
		Monochromatic: mono,
	}
}

// Semantic colors keep their conventional hue family whatever the brand hue
// is; only saturation and lightness follow the base, inside legible bounds.
func generateSemantic(base color.Color) map[Role]color.Color {
	hsl := base.HSL()
	saturation := clamp(0.5+(hsl.S-0.5)/2, 0.45, 0.85)
	lightness := clamp(hsl.L, 0.38, 0.50)

	semantic := make(map[Role]color.Color, len(Roles))
	for _, role := range Roles {
		semantic[role] = color.FromHSL(roleAnchorHues[role], saturation, lightness)
	}
	return semantic
}

func classify(shades []Shade) []ShadeAccessibility {
	results := make([]ShadeAccessibility, len(shades))
	for i, shade := range shades {
		results[i] = ShadeAccessibility{
			Step:     shade.Step,
			OnWhite:  color.Evaluate(shade.Color, color.White, color.ThresholdNormalText),
			OnBlack:  color.Evaluate(shade.Color, color.Black, color.ThresholdNormalText),
			BestText: color.BestTextColor(shade.Color),
		}
	}
	return results
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
