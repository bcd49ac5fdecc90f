package tokens

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/codr1/brandkit/internal/color"
	"github.com/codr1/brandkit/internal/palette"
	"github.com/codr1/brandkit/internal/spacing"
	"github.com/codr1/brandkit/internal/typography"
)

// DefaultPrimary is the brand color used when none is supplied.
const DefaultPrimary = "#2563eb"

// Neutral surface colors shared by every built light theme.
var lightNeutrals = map[string]string{
	RoleBackground:        "#ffffff",
	RoleForeground:        "#0f172a",
	RoleSurface:           "#ffffff",
	RoleCard:              "#ffffff",
	RoleCardForeground:    "#0f172a",
	RolePopover:           "#ffffff",
	RolePopoverForeground: "#0f172a",
	RoleMuted:             "#f1f5f9",
	RoleMutedForeground:   "#64748b",
	RoleBorder:            "#e2e8f0",
	RoleInput:             "#e2e8f0",
}

var radiusScale = Tree{
	"none": "0",
	"sm":   "0.25rem",
	"md":   "0.5rem",
	"lg":   "0.75rem",
	"xl":   "1rem",
	"full": "9999px",
}

var shadowScale = Tree{
	"sm": "0 1px 2px 0 rgb(0 0 0 / 0.05)",
	"md": "0 4px 6px -1px rgb(0 0 0 / 0.1), 0 2px 4px -2px rgb(0 0 0 / 0.1)",
	"lg": "0 10px 15px -3px rgb(0 0 0 / 0.1), 0 4px 6px -4px rgb(0 0 0 / 0.1)",
	"xl": "0 20px 25px -5px rgb(0 0 0 / 0.1), 0 8px 10px -6px rgb(0 0 0 / 0.1)",
}

var effectsTree = Tree{
	"transition": Tree{
		"fast":   "150ms",
		"normal": "250ms",
		"slow":   "400ms",
	},
	"opacity": Tree{
		"disabled": 0.5,
		"overlay":  0.8,
	},
}

// BrandInputs are the choices a business makes; everything else is derived.
type BrandInputs struct {
	Primary     string               `json:"primary" yaml:"primary"`
	Secondary   string               `json:"secondary,omitempty" yaml:"secondary,omitempty"`
	Accent      string               `json:"accent,omitempty" yaml:"accent,omitempty"`
	FontPair    string               `json:"fontPair,omitempty" yaml:"font_pair,omitempty"`
	Fonts       *typography.FontPair `json:"fonts,omitempty" yaml:"fonts,omitempty"`
	TypeBase    float64              `json:"typeBase,omitempty" yaml:"type_base,omitempty"`
	TypeRatio   float64              `json:"typeRatio,omitempty" yaml:"type_ratio,omitempty"`
	Density     string               `json:"density,omitempty" yaml:"density,omitempty"`
	SpacingUnit spacing.Unit         `json:"spacingUnit,omitempty" yaml:"spacing_unit,omitempty"`
	Grid        *spacing.GridSystem  `json:"grid,omitempty" yaml:"grid,omitempty"`
	Appearance  Appearance           `json:"appearance,omitempty" yaml:"appearance,omitempty"`
}

// DefaultBrandInputs builds the stock theme.
func DefaultBrandInputs() BrandInputs {
	return BrandInputs{
		Primary:     DefaultPrimary,
		FontPair:    typography.DefaultFontPair,
		TypeBase:    typography.DefaultBaseSize,
		TypeRatio:   typography.DefaultRatio,
		Density:     spacing.DefaultDensity,
		SpacingUnit: spacing.UnitRem,
		Appearance:  AppearanceLight,
	}
}

// Build derives a full token set from brand inputs. Secondary defaults to the
// primary's complement and accent to its second analogous hue. Only malformed
// colors are rejected.
func Build(in BrandInputs) (DesignTokens, error) {
	primary, err := color.ParseHex(in.Primary)
	if err != nil {
		return DesignTokens{}, fmt.Errorf("primary: %w", err)
	}
	primaryPalette := palette.Generate(primary)

	secondary := primaryPalette.Harmonies.Complementary[0]
	if in.Secondary != "" {
		if secondary, err = color.ParseHex(in.Secondary); err != nil {
			return DesignTokens{}, fmt.Errorf("secondary: %w", err)
		}
	}
	accent := primaryPalette.Harmonies.Analogous[1]
	if in.Accent != "" {
		if accent, err = color.ParseHex(in.Accent); err != nil {
			return DesignTokens{}, fmt.Errorf("accent: %w", err)
		}
	}

	colors := make(map[string]ColorToken, len(lightNeutrals)+8)
	for role, hex := range lightNeutrals {
		colors[role] = Solid{Color: color.MustParseHex(hex)}
	}
	colors[RolePrimary] = NewScaled(primary)
	colors[RoleSecondary] = NewScaled(secondary)
	colors[RoleAccent] = NewScaled(accent)
	colors[RoleRing] = Solid{Color: primary}
	colors[RoleDestructive] = NewScaled(primaryPalette.Semantic[palette.RoleError])
	colors[RoleSuccess] = NewScaled(primaryPalette.Semantic[palette.RoleSuccess])
	colors[RoleWarning] = NewScaled(primaryPalette.Semantic[palette.RoleWarning])
	colors[RoleInfo] = NewScaled(primaryPalette.Semantic[palette.RoleInfo])

	appearance := in.Appearance
	if _, ok := ParseAppearance(string(appearance)); !ok {
		appearance = AppearanceLight
	}

	return DesignTokens{
		Colors: colors,
		Palettes: Tree{
			RolePrimary:   shadeTree(primaryPalette),
			RoleSecondary: shadeTree(palette.Generate(secondary)),
			RoleAccent:    shadeTree(palette.Generate(accent)),
		},
		Typography: typographyTree(in),
		Spacing:    spacingTree(in),
		Grid:       gridTree(in.Grid),
		Borders: Tree{
			"width":  "1px",
			"radius": radiusScale.Clone(),
		},
		Shadows:    shadowScale.Clone(),
		Effects:    effectsTree.Clone(),
		Appearance: appearance,
	}, nil
}

func shadeTree(p palette.ColorPalette) Tree {
	out := make(Tree, len(p.Shades))
	for _, shade := range p.Shades {
		out[strconv.Itoa(int(shade.Step))] = shade.Color.Hex()
	}
	return out
}

func typographyTree(in BrandInputs) Tree {
	pair, _ := typography.PairByName(in.FontPair)
	if in.Fonts != nil {
		pair = in.Fonts.WithDefaults()
	}
	scale := typography.Generate(in.TypeBase, in.TypeRatio)

	sizes := make(Tree, len(scale.Steps))
	lineHeights := make(Tree, len(scale.Steps))
	letterSpacing := make(Tree, len(scale.Steps))
	for _, step := range scale.Steps {
		sizes[step.Label] = spacing.Format(typography.Rem(step.Size), spacing.UnitRem)
		lineHeights[step.Label] = step.LineHeight
		letterSpacing[step.Label] = spacing.Format(step.LetterSpacing, spacing.UnitEm)
	}

	weights := make(Tree, len(typography.FontWeights))
	for _, w := range typography.FontWeights {
		weights[w.Name] = w.Weight
	}

	return Tree{
		"fontFamily": Tree{
			"heading": typography.Stack(pair.Heading, "sans-serif"),
			"body":    typography.Stack(pair.Body, "sans-serif"),
			"mono":    typography.Stack(pair.Mono, "monospace"),
		},
		"fontSize":      sizes,
		"lineHeight":    lineHeights,
		"letterSpacing": letterSpacing,
		"fontWeight":    weights,
	}
}

func spacingTree(in BrandInputs) Tree {
	base, ratio, _ := spacing.Density(in.Density)
	unit, ok := spacing.ParseUnit(string(in.SpacingUnit))
	if !ok {
		unit = spacing.UnitRem
	}
	scale := spacing.Generate(base, spacing.UnitPx, ratio).In(unit)

	out := Tree{"base": spacing.Format(scale.Base, scale.Unit)}
	for _, step := range scale.Steps {
		out[step.Label] = spacing.Format(step.Value, scale.Unit)
	}
	for _, step := range scale.Micro {
		out[step.Label] = spacing.Format(step.Value, scale.Unit)
	}
	return out
}

func gridTree(grid *spacing.GridSystem) Tree {
	g := spacing.DefaultGrid()
	if grid != nil {
		g = *grid
	}
	breakpoints := make(Tree, len(g.Breakpoints))
	for _, bp := range g.Breakpoints {
		breakpoints[bp.Name] = spacing.Format(bp.Width, spacing.UnitPx)
	}
	out := Tree{
		"columns": g.Columns,
		"gutter":  spacing.Format(g.Gutter, g.Unit),
		"margin":  spacing.Format(g.Margin, g.Unit),
	}
	if len(breakpoints) > 0 {
		out["breakpoints"] = breakpoints
	}
	return out
}

var (
	defaultOnce   sync.Once
	defaultTokens DesignTokens
	defaultTree   Tree
)

func loadDefaults() {
	defaultOnce.Do(func() {
		tokens, err := Build(DefaultBrandInputs())
		if err != nil {
			panic(fmt.Sprintf("default brand inputs: %v", err))
		}
		defaultTokens = tokens
		defaultTree = tokens.Tree()
	})
}

// DefaultTokens returns a copy of the stock token set.
func DefaultTokens() DesignTokens {
	loadDefaults()
	return defaultTokens.Clone()
}

// DefaultTree returns a copy of the stock token tree. It documents the
// fallback value for every path that has one.
func DefaultTree() Tree {
	loadDefaults()
	return defaultTree.Clone()
}

// DefaultAt returns the documented default for a path, if any.
func DefaultAt(path ...string) (any, bool) {
	return defaultAt(path)
}

func defaultAt(path []string) (any, bool) {
	loadDefaults()
	v, ok := defaultTree.Lookup(path...)
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}
