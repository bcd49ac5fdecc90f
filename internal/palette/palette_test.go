package palette

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/brandkit/internal/color"
)

const brandHex = "#4F46E5"

func hueDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

func TestGenerate_Deterministic(t *testing.T) {
	base := color.MustParseHex(brandHex)

	first := Generate(base)
	second := Generate(base)

	assert.Equal(t, first.Shades, second.Shades)
	assert.Equal(t, first.Harmonies, second.Harmonies)
	assert.Equal(t, first.Semantic, second.Semantic)
	assert.Equal(t, first.Accessibility, second.Accessibility)
}

func TestGenerate_ShadeRamp(t *testing.T) {
	base := color.MustParseHex(brandHex)
	p := Generate(base)

	require.Len(t, p.Shades, len(ShadeSteps()))
	assert.Equal(t, ShadeStep(50), p.Shades[0].Step)
	assert.Equal(t, ShadeStep(950), p.Shades[len(p.Shades)-1].Step)

	for i := 1; i < len(p.Shades); i++ {
		prev := color.RelativeLuminance(p.Shades[i-1].Color)
		curr := color.RelativeLuminance(p.Shades[i].Color)
		assert.Less(t, curr, prev, "shade %d should be darker than %d", p.Shades[i].Step, p.Shades[i-1].Step)
	}

	baseHue := base.HSL().H
	for _, step := range []ShadeStep{300, 400, 500, 600, 700} {
		shade, ok := p.Shade(step)
		require.True(t, ok)
		assert.LessOrEqual(t, hueDistance(baseHue, shade.HSL().H), 2.0, "shade %d drifted in hue", step)
	}

	_, ok := p.Shade(ShadeStep(123))
	assert.False(t, ok)
}

func TestGenerate_Harmonies(t *testing.T) {
	base := color.MustParseHex(brandHex)
	baseHue := base.HSL().H
	p := Generate(base)

	tests := []struct {
		name    string
		colors  []color.Color
		offsets []float64
	}{
		{name: "complementary", colors: p.Harmonies.Complementary, offsets: []float64{180}},
		{name: "analogous", colors: p.Harmonies.Analogous, offsets: []float64{-30, 30}},
		{name: "triadic", colors: p.Harmonies.Triadic, offsets: []float64{120, 240}},
		{name: "tetradic", colors: p.Harmonies.Tetradic, offsets: []float64{90, 180, 270}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Len(t, test.colors, len(test.offsets))
			for i, offset := range test.offsets {
				got := test.colors[i].HSL().H
				assert.LessOrEqual(t, hueDistance(baseHue+offset, got), 2.0, "offset %.0f", offset)
			}
		})
	}

	require.Len(t, p.Harmonies.Monochromatic, 5)
	assert.Less(t, len(p.Harmonies.Monochromatic), len(p.Shades))
	for i := 1; i < len(p.Harmonies.Monochromatic); i++ {
		assert.Greater(t, p.Harmonies.Monochromatic[i].HSL().L, p.Harmonies.Monochromatic[i-1].HSL().L)
	}
}

func TestGenerate_SemanticRolesIgnoreBrandHue(t *testing.T) {
	anchors := map[Role]float64{
		RoleSuccess: 142,
		RoleWarning: 38,
		RoleError:   0,
		RoleInfo:    217,
	}

	for _, hex := range []string{brandHex, "#e11d48", "#16a34a", "#fde047", "#0f172a", "#f8fafc"} {
		p := Generate(color.MustParseHex(hex))
		require.Len(t, p.Semantic, len(Roles))

		for role, anchor := range anchors {
			c, ok := p.Semantic[role]
			require.True(t, ok, "missing role %s", role)
			hsl := c.HSL()
			assert.LessOrEqual(t, hueDistance(anchor, hsl.H), 3.0, "%s for %s", role, hex)
			assert.GreaterOrEqual(t, hsl.L, 0.37)
			assert.LessOrEqual(t, hsl.L, 0.51)
			assert.GreaterOrEqual(t, color.ContrastRatio(c, color.BestTextColor(c)), color.ThresholdNormalText)
		}
	}
}

func TestGenerate_Accessibility(t *testing.T) {
	p := Generate(color.MustParseHex(brandHex))
	require.Len(t, p.Accessibility, len(p.Shades))

	lightest := p.Accessibility[0]
	assert.Equal(t, ShadeStep(50), lightest.Step)
	assert.False(t, lightest.OnWhite.PassesLargeText)
	assert.True(t, lightest.OnBlack.PassesEnhanced)
	assert.Equal(t, color.Black, lightest.BestText)

	darkest := p.Accessibility[len(p.Accessibility)-1]
	assert.True(t, darkest.OnWhite.PassesEnhanced)
	assert.Equal(t, color.White, darkest.BestText)
}
