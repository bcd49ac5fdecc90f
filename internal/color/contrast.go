package color

import "math"

// WCAG 2.x contrast thresholds.
const (
	ThresholdNormalText = 4.5
	ThresholdLargeText  = 3.0
	ThresholdEnhanced   = 7.0
)

// AccessibilityResult is derived from a foreground/background pair and is never stored.
type AccessibilityResult struct {
	ContrastRatio    float64 `json:"contrastRatio"`
	PassesNormalText bool    `json:"passesNormalText"`
	PassesLargeText  bool    `json:"passesLargeText"`
	PassesEnhanced   bool    `json:"passesEnhanced"`
	Minimum          float64 `json:"minimum"`
	PassesMinimum    bool    `json:"passesMinimum"`
}

// RelativeLuminance follows the WCAG definition: per-channel sRGB
// linearization, then the Rec. 709 weights.
func RelativeLuminance(c Color) float64 {
	rgb := c.RGB()
	rl := srgbToLinear(float64(rgb.R) / 255)
	gl := srgbToLinear(float64(rgb.G) / 255)
	bl := srgbToLinear(float64(rgb.B) / 255)

	return 0.2126*rl + 0.7152*gl + 0.0722*bl
}

// ContrastRatio is symmetric in its arguments and lies in [1,21].
func ContrastRatio(a, b Color) float64 {
	la := RelativeLuminance(a)
	lb := RelativeLuminance(b)
	lightest := math.Max(la, lb)
	darkest := math.Min(la, lb)
	return (lightest + 0.05) / (darkest + 0.05)
}

// Evaluate classifies fg on bg against the WCAG thresholds and a caller minimum.
func Evaluate(fg, bg Color, minimum float64) AccessibilityResult {
	ratio := ContrastRatio(fg, bg)
	return AccessibilityResult{
		ContrastRatio:    ratio,
		PassesNormalText: ratio >= ThresholdNormalText,
		PassesLargeText:  ratio >= ThresholdLargeText,
		PassesEnhanced:   ratio >= ThresholdEnhanced,
		Minimum:          minimum,
		PassesMinimum:    ratio >= minimum,
	}
}

// CheckAccessibility parses both hex inputs and evaluates them against the
// normal-text threshold.
func CheckAccessibility(fgHex, bgHex string) (AccessibilityResult, error) {
	fg, err := ParseHex(fgHex)
	if err != nil {
		return AccessibilityResult{}, err
	}
	bg, err := ParseHex(bgHex)
	if err != nil {
		return AccessibilityResult{}, err
	}
	return Evaluate(fg, bg, ThresholdNormalText), nil
}

// BestTextColor returns black or white, whichever contrasts more with bg.
// Ties go to black.
func BestTextColor(bg Color) Color {
	if ContrastRatio(White, bg) > ContrastRatio(Black, bg) {
		return White
	}
	return Black
}

func srgbToLinear(value float64) float64 {
	if value <= 0.03928 {
		return value / 12.92
	}
	return math.Pow((value+0.055)/1.055, 2.4)
}
