package tokens

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/codr1/brandkit/internal/color"
	"github.com/codr1/brandkit/internal/typography"
)

// Source is a persisted theme in one of its two shapes: LegacyTheme or
// TokenTheme. Normalize turns either into DesignTokens.
type Source interface {
	source()
}

// LegacyTheme is the flat theme shape older records still carry.
type LegacyTheme struct {
	PrimaryColor    string `json:"primaryColor,omitempty" yaml:"primary_color,omitempty"`
	SecondaryColor  string `json:"secondaryColor,omitempty" yaml:"secondary_color,omitempty"`
	AccentColor     string `json:"accentColor,omitempty" yaml:"accent_color,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty" yaml:"background_color,omitempty"`
	TextColor       string `json:"textColor,omitempty" yaml:"text_color,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty" yaml:"font_family,omitempty"`
	BorderRadius    Length `json:"borderRadius,omitempty" yaml:"border_radius,omitempty"`
	Spacing         Length `json:"spacing,omitempty" yaml:"spacing,omitempty"`
	Appearance      string `json:"appearance,omitempty" yaml:"appearance,omitempty"`
}

// TokenTheme carries a token tree.
type TokenTheme struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Tokens Tree   `json:"tokens" yaml:"tokens"`
}

func (LegacyTheme) source() {}
func (TokenTheme) source()  {}

// Length is a CSS length. Bare JSON numbers are read as px.
type Length string

func (l *Length) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Length(strings.TrimSpace(s))
		return nil
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("length must be a string or number: %w", err)
	}
	*l = Length(strconv.FormatFloat(n, 'f', -1, 64) + "px")
	return nil
}

// IsEmpty reports whether no legacy field is set.
func (t LegacyTheme) IsEmpty() bool {
	return t == LegacyTheme{}
}

// ErrInvalidSource is returned when a stored theme is not a JSON object.
var ErrInvalidSource = errors.New("invalid theme source")

// DecodeSource picks the source variant from raw JSON. A non-null "tokens"
// member selects TokenTheme, otherwise the object is read as a LegacyTheme.
func DecodeSource(data []byte) (Source, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	if probe == nil {
		return nil, fmt.Errorf("%w: null document", ErrInvalidSource)
	}

	if raw, ok := probe["tokens"]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		var theme TokenTheme
		if err := json.Unmarshal(data, &theme); err != nil {
			return nil, fmt.Errorf("%w: tokens: %v", ErrInvalidSource, err)
		}
		return theme, nil
	}

	var legacy LegacyTheme
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("%w: legacy theme: %v", ErrInvalidSource, err)
	}
	return legacy, nil
}

// EncodeSource is the inverse of DecodeSource.
func EncodeSource(src Source) ([]byte, error) {
	switch s := src.(type) {
	case TokenTheme:
		if s.Tokens == nil {
			s.Tokens = Tree{}
		}
		return json.Marshal(s)
	case LegacyTheme:
		return json.Marshal(s)
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidSource, src)
	}
}

// Normalize converts either source variant to DesignTokens. It never fails:
// problems are reported as diagnostics and defaults fill in where the
// default tree has a value. A legacy theme yields only the fields it set.
func Normalize(src Source) (DesignTokens, Diagnostics) {
	switch s := src.(type) {
	case TokenTheme:
		return fromTree(s.Tokens)
	case *TokenTheme:
		if s == nil {
			return DesignTokens{}, nil
		}
		return fromTree(s.Tokens)
	case LegacyTheme:
		return fromLegacy(s)
	case *LegacyTheme:
		if s == nil {
			return DesignTokens{}, nil
		}
		return fromLegacy(*s)
	default:
		return DesignTokens{}, nil
	}
}

func fromTree(raw Tree) (DesignTokens, Diagnostics) {
	tree, diags := Sanitize(raw)
	var out DesignTokens

	for _, key := range tree.Keys() {
		v := tree[key]
		path := []string{key}
		switch key {
		case BranchColors:
			out.Colors = colorsFromTree(path, v, &diags)
		case BranchAppearance:
			out.Appearance = appearanceFromTree(path, v, &diags)
		case BranchPalettes:
			out.Palettes = branchFromTree(path, v, &diags)
		case BranchTypography:
			out.Typography = branchFromTree(path, v, &diags)
		case BranchSpacing:
			out.Spacing = branchFromTree(path, v, &diags)
		case BranchGrid:
			out.Grid = branchFromTree(path, v, &diags)
		case BranchBorders:
			out.Borders = branchFromTree(path, v, &diags)
		case BranchShadows:
			out.Shadows = branchFromTree(path, v, &diags)
		case BranchEffects:
			out.Effects = branchFromTree(path, v, &diags)
		default:
			if out.Extra == nil {
				out.Extra = make(Tree)
			}
			out.Extra[key] = v
		}
	}
	return out, diags
}

func colorsFromTree(path []string, v any, diags *Diagnostics) map[string]ColorToken {
	branch, ok := AsTree(v)
	if !ok {
		diags.add(KindInvalidTokenShape, path, "colors must be an object, default substituted")
		def, _ := defaultAt(path)
		branch, _ = AsTree(def)
	}

	colors := make(map[string]ColorToken, len(branch))
	for _, role := range branch.Keys() {
		rolePath := appendPath(path, role)
		token, err := ParseColorToken(branch[role])
		if err == nil {
			colors[role] = token
			continue
		}

		kind := KindInvalidTokenShape
		if errors.Is(err, color.ErrInvalidColorFormat) {
			kind = KindInvalidColorFormat
		}
		if def, found := defaultAt(rolePath); found {
			if token, derr := ParseColorToken(def); derr == nil {
				diags.add(kind, rolePath, "%v, default substituted", err)
				colors[role] = token
				continue
			}
		}
		diags.add(kind, rolePath, "%v, skipped", err)
	}
	return colors
}

func appearanceFromTree(path []string, v any, diags *Diagnostics) Appearance {
	s, _ := v.(string)
	if a, ok := ParseAppearance(s); ok {
		return a
	}
	diags.add(KindInvalidTokenShape, path, "unknown appearance %v, using %s", v, AppearanceLight)
	return AppearanceLight
}

// Known branches hold objects. A bare leaf in their place is kept under
// "base" so it still compiles to a declaration.
func branchFromTree(path []string, v any, diags *Diagnostics) Tree {
	if branch, ok := AsTree(v); ok {
		return branch
	}
	diags.add(KindInvalidTokenShape, path, "expected an object, value kept as %s.base", path[len(path)-1])
	return Tree{"base": v}
}

func fromLegacy(t LegacyTheme) (DesignTokens, Diagnostics) {
	var (
		out   DesignTokens
		diags Diagnostics
	)

	for _, field := range []struct {
		name  string
		value string
		role  string
	}{
		{"primaryColor", t.PrimaryColor, RolePrimary},
		{"secondaryColor", t.SecondaryColor, RoleSecondary},
		{"accentColor", t.AccentColor, RoleAccent},
		{"backgroundColor", t.BackgroundColor, RoleBackground},
		{"textColor", t.TextColor, RoleForeground},
	} {
		if strings.TrimSpace(field.value) == "" {
			continue
		}
		c, err := color.ParseHex(field.value)
		if err != nil {
			diags.add(KindInvalidColorFormat, []string{field.name}, "%v, skipped", err)
			continue
		}
		if out.Colors == nil {
			out.Colors = make(map[string]ColorToken)
		}
		out.Colors[field.role] = Solid{Color: c}
	}

	if family := strings.TrimSpace(t.FontFamily); family != "" {
		out.Typography = Tree{"fontFamily": Tree{"body": family}}
	}
	if t.BorderRadius != "" {
		out.Borders = Tree{"radius": Tree{"md": string(t.BorderRadius)}}
	}
	if t.Spacing != "" {
		out.Spacing = Tree{"base": string(t.Spacing)}
	}
	if t.Appearance != "" {
		if a, ok := ParseAppearance(t.Appearance); ok {
			out.Appearance = a
		} else {
			diags.add(KindInvalidTokenShape, []string{"appearance"}, "unknown appearance %q, skipped", t.Appearance)
		}
	}
	return out, diags
}

// Migrate expands a legacy theme into a full token set: its colors feed
// Build and its remaining fields override the built values.
func Migrate(t LegacyTheme) (DesignTokens, Diagnostics) {
	minimal, diags := fromLegacy(t)

	in := DefaultBrandInputs()
	if c, ok := minimal.Colors[RolePrimary]; ok {
		in.Primary = c.BaseColor().Hex()
	}
	if c, ok := minimal.Colors[RoleSecondary]; ok {
		in.Secondary = c.BaseColor().Hex()
	}
	if c, ok := minimal.Colors[RoleAccent]; ok {
		in.Accent = c.BaseColor().Hex()
	}
	if minimal.Appearance != "" {
		in.Appearance = minimal.Appearance
	}
	if family := strings.TrimSpace(t.FontFamily); family != "" {
		in.Fonts = &typography.FontPair{Heading: family, Body: family}
	}

	full, err := Build(in)
	if err != nil {
		// Colors were already validated by fromLegacy.
		panic(fmt.Sprintf("migrate legacy theme: %v", err))
	}

	for _, role := range []string{RoleBackground, RoleForeground} {
		if c, ok := minimal.Colors[role]; ok {
			full.Colors[role] = c
		}
	}
	if t.BorderRadius != "" {
		if radius, ok := AsTree(full.Borders["radius"]); ok {
			radius["md"] = string(t.BorderRadius)
		}
	}
	if t.Spacing != "" {
		full.Spacing["base"] = string(t.Spacing)
	}
	return full, diags
}
