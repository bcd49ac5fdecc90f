// Package spacing generates spacing scales and grid systems, and converts
// between the px/rem/em unit systems they share.
package spacing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit is a CSS length unit supported by the scales.
type Unit string

const (
	UnitPx  Unit = "px"
	UnitRem Unit = "rem"
	UnitEm  Unit = "em"
)

const (
	// RootFontSize is the px size of 1rem. em values resolve against it too.
	RootFontSize = 16.0
	DefaultBase  = 16.0
	DefaultRatio = 1.5
	MaxRatio     = 4.0
)

// Named steps are offsets from md.
var stepTable = []struct {
	Label  string
	Offset int
}{
	{"xs", -2},
	{"sm", -1},
	{"md", 0},
	{"lg", 1},
	{"xl", 2},
	{"2xl", 3},
	{"3xl", 4},
	{"4xl", 5},
	{"5xl", 6},
	{"6xl", 7},
}

// Micro-scale multipliers of a quarter of the base.
var microTable = []float64{0.5, 1, 1.5, 2, 3, 4, 5, 6, 8, 10, 12, 16}

// Density presets: base px and ratio.
var densities = map[string]struct {
	Base  float64
	Ratio float64
}{
	"compact":     {12, 1.25},
	"comfortable": {16, 1.5},
	"spacious":    {20, 1.618},
}

const DefaultDensity = "comfortable"

// Step is one named or numeric spacing value, expressed in the scale's unit.
type Step struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// SpacingScale holds named steps and the numeric micro-scale.
type SpacingScale struct {
	Base  float64 `json:"base"`
	Unit  Unit    `json:"unit"`
	Ratio float64 `json:"ratio"`
	Steps []Step  `json:"steps"`
	Micro []Step  `json:"micro"`
}

// ParseUnit accepts px, rem and em in any case.
func ParseUnit(value string) (Unit, bool) {
	switch Unit(strings.ToLower(strings.TrimSpace(value))) {
	case UnitPx:
		return UnitPx, true
	case UnitRem:
		return UnitRem, true
	case UnitEm:
		return UnitEm, true
	default:
		return "", false
	}
}

// Labels returns the named step labels in ascending order.
func Labels() []string {
	labels := make([]string, len(stepTable))
	for i, entry := range stepTable {
		labels[i] = entry.Label
	}
	return labels
}

// Density resolves a density preset. Unknown names return the default preset.
func Density(name string) (base, ratio float64, ok bool) {
	preset, ok := densities[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		preset = densities[DefaultDensity]
	}
	return preset.Base, preset.Ratio, ok
}

// Generate builds a scale with base expressed in unit. Invalid inputs fall
// back to defaults: base 16px, unit px, ratio 1.5. Ratios above MaxRatio are
// invalid, and so is a base whose extreme steps would overflow.
func Generate(base float64, unit Unit, ratio float64) SpacingScale {
	if _, ok := ParseUnit(string(unit)); !ok {
		unit = UnitPx
	}
	if !(base > 0) || math.IsInf(base, 0) {
		base = Convert(DefaultBase, UnitPx, unit)
	}
	if !(ratio > 1 && ratio <= MaxRatio) {
		ratio = DefaultRatio
	}
	first, last := stepTable[0].Offset, stepTable[len(stepTable)-1].Offset
	if !finitePositive(base*math.Pow(ratio, float64(first))) || !finitePositive(base*math.Pow(ratio, float64(last))) {
		base = Convert(DefaultBase, UnitPx, unit)
	}

	steps := make([]Step, len(stepTable))
	for i, entry := range stepTable {
		steps[i] = Step{Label: entry.Label, Value: base * math.Pow(ratio, float64(entry.Offset))}
	}

	quarter := base / 4
	micro := make([]Step, len(microTable))
	for i, n := range microTable {
		micro[i] = Step{Label: strconv.FormatFloat(n, 'f', -1, 64), Value: n * quarter}
	}

	return SpacingScale{Base: base, Unit: unit, Ratio: ratio, Steps: steps, Micro: micro}
}

// Convert re-expresses v from one unit in another using RootFontSize.
func Convert(v float64, from, to Unit) float64 {
	if from == to {
		return v
	}
	px := v
	if from != UnitPx {
		px = v * RootFontSize
	}
	if to == UnitPx {
		return px
	}
	return px / RootFontSize
}

// In returns the scale with base and every value re-expressed in unit.
func (s SpacingScale) In(unit Unit) SpacingScale {
	if _, ok := ParseUnit(string(unit)); !ok || unit == s.Unit {
		return s
	}
	out := SpacingScale{
		Base:  Convert(s.Base, s.Unit, unit),
		Unit:  unit,
		Ratio: s.Ratio,
		Steps: make([]Step, len(s.Steps)),
		Micro: make([]Step, len(s.Micro)),
	}
	for i, step := range s.Steps {
		out.Steps[i] = Step{Label: step.Label, Value: Convert(step.Value, s.Unit, unit)}
	}
	for i, step := range s.Micro {
		out.Micro[i] = Step{Label: step.Label, Value: Convert(step.Value, s.Unit, unit)}
	}
	return out
}

// Step looks up a named or micro step by label.
func (s SpacingScale) Step(label string) (Step, bool) {
	for _, step := range s.Steps {
		if step.Label == label {
			return step, true
		}
	}
	for _, step := range s.Micro {
		if step.Label == label {
			return step, true
		}
	}
	return Step{}, false
}

// Format renders a value with its unit, trimmed to four decimals.
func Format(v float64, unit Unit) string {
	if v == 0 {
		return "0"
	}
	return FormatNumber(v) + string(unit)
}

// FormatNumber renders v with at most four decimals and no trailing zeros.
func FormatNumber(v float64) string {
	rounded := math.Round(v*10000) / 10000
	if rounded == 0 {
		// Drop negative zero.
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

func (u Unit) String() string {
	return string(u)
}

func (s Step) String() string {
	return fmt.Sprintf("%s=%s", s.Label, FormatNumber(s.Value))
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
