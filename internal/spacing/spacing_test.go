package spacing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Monotonic(t *testing.T) {
	for _, ratio := range []float64{1.05, 1.25, 1.5, 1.618, 2} {
		scale := Generate(16, UnitPx, ratio)
		require.Len(t, scale.Steps, len(Labels()))
		for i := 1; i < len(scale.Steps); i++ {
			assert.Greater(t, scale.Steps[i].Value, scale.Steps[i-1].Value, "ratio %.3f step %s", ratio, scale.Steps[i].Label)
		}
		for i := 1; i < len(scale.Micro); i++ {
			assert.Greater(t, scale.Micro[i].Value, scale.Micro[i-1].Value)
		}
	}
}

func TestGenerate_Values(t *testing.T) {
	scale := Generate(16, UnitPx, 1.5)

	md, ok := scale.Step("md")
	require.True(t, ok)
	assert.Equal(t, 16.0, md.Value)

	lg, ok := scale.Step("lg")
	require.True(t, ok)
	assert.InDelta(t, 24, lg.Value, 1e-9)

	xs, ok := scale.Step("xs")
	require.True(t, ok)
	assert.InDelta(t, 16/2.25, xs.Value, 1e-9)

	four, ok := scale.Step("4")
	require.True(t, ok)
	assert.Equal(t, 16.0, four.Value)

	half, ok := scale.Step("0.5")
	require.True(t, ok)
	assert.Equal(t, 2.0, half.Value)
}

func TestGenerate_InvalidInputsFallBack(t *testing.T) {
	scale := Generate(-1, Unit("pt"), 0.5)
	assert.Equal(t, DefaultBase, scale.Base)
	assert.Equal(t, UnitPx, scale.Unit)
	assert.Equal(t, DefaultRatio, scale.Ratio)

	remScale := Generate(math.NaN(), UnitRem, 1.25)
	assert.Equal(t, 1.0, remScale.Base)

	steep := Generate(16, UnitPx, 1e40)
	assert.Equal(t, DefaultRatio, steep.Ratio)

	huge := Generate(1e307, UnitPx, MaxRatio)
	assert.Equal(t, DefaultBase, huge.Base)
	for _, step := range huge.Steps {
		assert.False(t, math.IsInf(step.Value, 0), step.Label)
	}
}

func TestUnitRoundTrip(t *testing.T) {
	original := Generate(16, UnitPx, 1.5)

	rem := original.In(UnitRem)
	assert.Equal(t, UnitRem, rem.Unit)
	assert.Equal(t, 1.0, rem.Base)

	back := rem.In(UnitPx)
	require.Len(t, back.Steps, len(original.Steps))
	for i := range original.Steps {
		assert.Equal(t, original.Steps[i].Label, back.Steps[i].Label)
		assert.InDelta(t, original.Steps[i].Value, back.Steps[i].Value, 0.01)
	}
	for i := range original.Micro {
		assert.InDelta(t, original.Micro[i].Value, back.Micro[i].Value, 0.01)
	}
	assert.Equal(t, original.Base, back.Base)
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		from Unit
		to   Unit
		want float64
	}{
		{name: "px_to_rem", v: 24, from: UnitPx, to: UnitRem, want: 1.5},
		{name: "rem_to_px", v: 0.5, from: UnitRem, to: UnitPx, want: 8},
		{name: "em_to_rem", v: 2, from: UnitEm, to: UnitRem, want: 2},
		{name: "same_unit", v: 7, from: UnitPx, to: UnitPx, want: 7},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Convert(test.v, test.from, test.to))
		})
	}
}

func TestDensity(t *testing.T) {
	base, ratio, ok := Density("Compact")
	assert.True(t, ok)
	assert.Equal(t, 12.0, base)
	assert.Equal(t, 1.25, ratio)

	base, ratio, ok = Density("cosy")
	assert.False(t, ok)
	assert.Equal(t, 16.0, base)
	assert.Equal(t, 1.5, ratio)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0", Format(0, UnitPx))
	assert.Equal(t, "1.5rem", Format(1.5, UnitRem))
	assert.Equal(t, "7.1111px", Format(16/2.25, UnitPx))
	assert.Equal(t, "0", FormatNumber(-0.00001))
}

func TestNewGridSystem(t *testing.T) {
	tests := []struct {
		name        string
		columns     int
		breakpoints map[string]float64
		wantErr     error
	}{
		{name: "valid_subset", columns: 8, breakpoints: map[string]float64{"sm": 600, "lg": 1100}},
		{name: "no_breakpoints", columns: 1, breakpoints: nil},
		{name: "zero_columns", columns: 0, breakpoints: nil, wantErr: ErrInvalidColumns},
		{name: "unknown_name", columns: 12, breakpoints: map[string]float64{"tablet": 768}, wantErr: ErrUnknownBreakpoint},
		{name: "out_of_order", columns: 12, breakpoints: map[string]float64{"sm": 900, "md": 768}, wantErr: ErrBreakpointOrder},
		{name: "equal_widths", columns: 12, breakpoints: map[string]float64{"md": 768, "lg": 768}, wantErr: ErrBreakpointOrder},
		{name: "negative_width", columns: 12, breakpoints: map[string]float64{"md": -1}, wantErr: ErrBreakpointOrder},
		{name: "case_duplicate", columns: 12, breakpoints: map[string]float64{"SM": 640, "sm": 700}, wantErr: ErrDuplicateBreakpoint},
		{name: "space_duplicate", columns: 12, breakpoints: map[string]float64{" lg": 1024, "lg": 1024}, wantErr: ErrDuplicateBreakpoint},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			grid, err := NewGridSystem(test.columns, 24, 16, UnitPx, test.breakpoints)
			if test.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, test.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.columns, grid.Columns)
			assert.Len(t, grid.Breakpoints, len(test.breakpoints))
		})
	}
}

func TestDefaultGrid(t *testing.T) {
	grid := DefaultGrid()
	assert.Equal(t, 12, grid.Columns)
	require.Len(t, grid.Breakpoints, 5)
	for i := 1; i < len(grid.Breakpoints); i++ {
		assert.Greater(t, grid.Breakpoints[i].Width, grid.Breakpoints[i-1].Width)
	}

	width, ok := grid.Breakpoint("2xl")
	assert.True(t, ok)
	assert.Equal(t, 1536.0, width)

	rem := grid.In(UnitRem)
	assert.Equal(t, 1.5, rem.Gutter)
	assert.Equal(t, 1.0, rem.Margin)
	assert.Equal(t, grid.Breakpoints, rem.Breakpoints)

	// 1024 - 32 margins - 11*24 gutters = 728 across 12 columns.
	assert.InDelta(t, 728.0/12, grid.ColumnWidth(1024), 1e-9)
	assert.InDelta(t, grid.ColumnWidth(1024), rem.ColumnWidth(1024), 1e-9)
	assert.Equal(t, 0.0, grid.ColumnWidth(100))
}
