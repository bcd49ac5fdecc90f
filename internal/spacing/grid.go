package spacing

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidColumns      = errors.New("grid columns must be at least 1")
	ErrUnknownBreakpoint   = errors.New("unknown breakpoint name")
	ErrDuplicateBreakpoint = errors.New("breakpoint given more than once")
	ErrBreakpointOrder     = errors.New("breakpoint widths must increase with breakpoint size")
	ErrInvalidLength       = errors.New("grid lengths must be non-negative")
)

// Breakpoint names in ascending order.
var breakpointOrder = []string{"xs", "sm", "md", "lg", "xl", "2xl"}

// Breakpoint is a named minimum viewport width in px.
type Breakpoint struct {
	Name  string  `json:"name"`
	Width float64 `json:"width"`
}

// GridSystem describes a column grid. Gutter and Margin are expressed in
// Unit; breakpoint widths are always px.
type GridSystem struct {
	Columns     int          `json:"columns"`
	Gutter      float64      `json:"gutter"`
	Margin      float64      `json:"margin"`
	Unit        Unit         `json:"unit"`
	Breakpoints []Breakpoint `json:"breakpoints"`
}

// BreakpointNames returns the recognised breakpoint names in ascending order.
func BreakpointNames() []string {
	return append([]string(nil), breakpointOrder...)
}

// NewGridSystem validates and builds a grid. Breakpoints may be any subset of
// the recognised names but their widths must be strictly increasing in name
// order; out-of-order input is rejected rather than sorted.
func NewGridSystem(columns int, gutter, margin float64, unit Unit, breakpoints map[string]float64) (GridSystem, error) {
	if columns < 1 {
		return GridSystem{}, fmt.Errorf("%w: got %d", ErrInvalidColumns, columns)
	}
	if !validLength(gutter) || !validLength(margin) {
		return GridSystem{}, fmt.Errorf("%w: gutter=%v margin=%v", ErrInvalidLength, gutter, margin)
	}
	parsed, ok := ParseUnit(string(unit))
	if !ok {
		parsed = UnitPx
	}

	normalized := make(map[string]float64, len(breakpoints))
	for name, width := range breakpoints {
		key := strings.ToLower(strings.TrimSpace(name))
		if !knownBreakpoint(key) {
			return GridSystem{}, fmt.Errorf("%w: %q", ErrUnknownBreakpoint, name)
		}
		if _, dup := normalized[key]; dup {
			return GridSystem{}, fmt.Errorf("%w: %q repeats breakpoint %s", ErrDuplicateBreakpoint, name, key)
		}
		if !(width > 0) || math.IsInf(width, 0) {
			return GridSystem{}, fmt.Errorf("%w: %s has width %v", ErrBreakpointOrder, key, width)
		}
		normalized[key] = width
	}

	ordered := make([]Breakpoint, 0, len(normalized))
	for _, name := range breakpointOrder {
		width, ok := normalized[name]
		if !ok {
			continue
		}
		if n := len(ordered); n > 0 && width <= ordered[n-1].Width {
			prev := ordered[n-1]
			return GridSystem{}, fmt.Errorf("%w: %s (%vpx) <= %s (%vpx)", ErrBreakpointOrder, name, width, prev.Name, prev.Width)
		}
		ordered = append(ordered, Breakpoint{Name: name, Width: width})
	}

	return GridSystem{
		Columns:     columns,
		Gutter:      gutter,
		Margin:      margin,
		Unit:        parsed,
		Breakpoints: ordered,
	}, nil
}

// DefaultGrid is a 12-column grid with common viewport breakpoints.
func DefaultGrid() GridSystem {
	grid, err := NewGridSystem(12, 24, 16, UnitPx, map[string]float64{
		"sm":  640,
		"md":  768,
		"lg":  1024,
		"xl":  1280,
		"2xl": 1536,
	})
	if err != nil {
		panic(err)
	}
	return grid
}

// In re-expresses gutter and margin in unit. Breakpoints stay in px.
func (g GridSystem) In(unit Unit) GridSystem {
	if _, ok := ParseUnit(string(unit)); !ok || unit == g.Unit {
		return g
	}
	out := g
	out.Gutter = Convert(g.Gutter, g.Unit, unit)
	out.Margin = Convert(g.Margin, g.Unit, unit)
	out.Unit = unit
	out.Breakpoints = append([]Breakpoint(nil), g.Breakpoints...)
	return out
}

// Breakpoint looks up a breakpoint width by name.
func (g GridSystem) Breakpoint(name string) (float64, bool) {
	for _, bp := range g.Breakpoints {
		if bp.Name == name {
			return bp.Width, true
		}
	}
	return 0, false
}

// ColumnWidth returns the width of one column, in px, for a container of the
// given px width.
func (g GridSystem) ColumnWidth(container float64) float64 {
	gutter := Convert(g.Gutter, g.Unit, UnitPx)
	margin := Convert(g.Margin, g.Unit, UnitPx)
	usable := container - 2*margin - gutter*float64(g.Columns-1)
	if usable <= 0 {
		return 0
	}
	return usable / float64(g.Columns)
}

func knownBreakpoint(name string) bool {
	for _, known := range breakpointOrder {
		if known == name {
			return true
		}
	}
	return false
}

func validLength(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
