// Package typography generates modular type scales and the font settings
// that go with them.
package typography

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultBaseSize = 16.0
	DefaultRatio    = 1.25

	// MaxRatio keeps every step of a scale finite.
	MaxRatio = 4.0

	// RootFontSize converts pixel sizes to rem.
	RootFontSize = 16.0
)

// Step offsets relative to "base". Labels and their order are fixed; only
// magnitudes change with base and ratio.
var stepTable = []struct {
	Label  string
	Offset int
}{
	{"xs", -2},
	{"sm", -1},
	{"base", 0},
	{"lg", 1},
	{"xl", 2},
	{"2xl", 3},
	{"3xl", 4},
	{"4xl", 5},
	{"5xl", 6},
	{"6xl", 7},
	{"7xl", 8},
	{"8xl", 9},
	{"9xl", 10},
}

// Named modular-scale ratios.
var namedRatios = []struct {
	Name  string
	Ratio float64
}{
	{"minor-second", 1.067},
	{"major-second", 1.125},
	{"minor-third", 1.2},
	{"major-third", 1.25},
	{"perfect-fourth", 1.333},
	{"augmented-fourth", 1.414},
	{"perfect-fifth", 1.5},
	{"golden", 1.618},
}

// Step is one entry of a type scale. Size is in px; LetterSpacing is in em.
type Step struct {
	Label         string  `json:"label"`
	Size          float64 `json:"size"`
	LineHeight    float64 `json:"lineHeight"`
	LetterSpacing float64 `json:"letterSpacing"`
}

// TypeScale is an ordered modular scale.
type TypeScale struct {
	Base  float64 `json:"base"`
	Ratio float64 `json:"ratio"`
	Steps []Step  `json:"steps"`
}

// Labels returns the step labels in ascending size order.
func Labels() []string {
	labels := make([]string, len(stepTable))
	for i, entry := range stepTable {
		labels[i] = entry.Label
	}
	return labels
}

// RatioByName resolves a named ratio such as "perfect-fourth".
func RatioByName(name string) (float64, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range namedRatios {
		if r.Name == name {
			return r.Ratio, true
		}
	}
	return 0, false
}

// ParseRatio accepts either a named ratio or a decimal literal.
func ParseRatio(value string) (float64, bool) {
	if ratio, ok := RatioByName(value); ok {
		return ratio, true
	}
	ratio, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || !validRatio(ratio) {
		return 0, false
	}
	return ratio, true
}

// Generate builds the scale. A non-positive base falls back to
// DefaultBaseSize and a ratio outside (1, MaxRatio] falls back to
// DefaultRatio. A base whose extreme steps would not be finite and positive
// also falls back to DefaultBaseSize.
func Generate(base, ratio float64) TypeScale {
	if !validSize(base) {
		base = DefaultBaseSize
	}
	if !validRatio(ratio) {
		ratio = DefaultRatio
	}
	first, last := stepTable[0].Offset, stepTable[len(stepTable)-1].Offset
	if !validSize(base*math.Pow(ratio, float64(first))) || !validSize(base*math.Pow(ratio, float64(last))) {
		base = DefaultBaseSize
	}

	steps := make([]Step, len(stepTable))
	for i, entry := range stepTable {
		steps[i] = Step{
			Label:         entry.Label,
			Size:          base * math.Pow(ratio, float64(entry.Offset)),
			LineHeight:    lineHeight(entry.Offset),
			LetterSpacing: letterSpacing(entry.Offset),
		}
	}
	return TypeScale{Base: base, Ratio: ratio, Steps: steps}
}

// Step looks up a step by label.
func (s TypeScale) Step(label string) (Step, bool) {
	for _, step := range s.Steps {
		if step.Label == label {
			return step, true
		}
	}
	return Step{}, false
}

// Rem expresses a px size in rem against RootFontSize.
func Rem(px float64) float64 {
	return px / RootFontSize
}

// Larger type needs less relative leading.
func lineHeight(offset int) float64 {
	return round4(clamp(1.5-0.05*float64(offset), 1.0, 1.6))
}

func letterSpacing(offset int) float64 {
	return round4(clamp(0.01-0.005*float64(offset), -0.03, 0.025))
}

func validSize(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func validRatio(v float64) bool {
	return v > 1 && v <= MaxRatio
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
