// Package tokens defines the design token model: the typed DesignTokens
// aggregate, its schema Tree form, the legacy and token theme sources that
// normalize into it, and the builder that derives a full token set from a
// handful of brand inputs.
package tokens

import (
	"strings"
)

// Color roles used across the token tree.
const (
	RoleBackground        = "background"
	RoleForeground        = "foreground"
	RoleSurface           = "surface"
	RoleCard              = "card"
	RoleCardForeground    = "card-foreground"
	RolePopover           = "popover"
	RolePopoverForeground = "popover-foreground"
	RolePrimary           = "primary"
	RoleSecondary         = "secondary"
	RoleAccent            = "accent"
	RoleMuted             = "muted"
	RoleMutedForeground   = "muted-foreground"
	RoleDestructive       = "destructive"
	RoleSuccess           = "success"
	RoleWarning           = "warning"
	RoleInfo              = "info"
	RoleBorder            = "border"
	RoleInput             = "input"
	RoleRing              = "ring"
)

// Top-level branches of the token tree.
const (
	BranchColors     = "colors"
	BranchPalettes   = "palettes"
	BranchTypography = "typography"
	BranchSpacing    = "spacing"
	BranchGrid       = "grid"
	BranchBorders    = "borders"
	BranchShadows    = "shadows"
	BranchEffects    = "effects"
	BranchAppearance = "appearance"
)

// Appearance is the preferred color mode of a theme.
type Appearance string

const (
	AppearanceLight  Appearance = "light"
	AppearanceDark   Appearance = "dark"
	AppearanceSystem Appearance = "system"
)

// ParseAppearance accepts light, dark and system in any case.
func ParseAppearance(v string) (Appearance, bool) {
	switch a := Appearance(strings.ToLower(strings.TrimSpace(v))); a {
	case AppearanceLight, AppearanceDark, AppearanceSystem:
		return a, true
	default:
		return "", false
	}
}

// DesignTokens is the root aggregate for one tenant's theme. Every branch is
// optional: nil means absent, and absent branches produce no declarations.
type DesignTokens struct {
	Colors     map[string]ColorToken
	Palettes   Tree
	Typography Tree
	Spacing    Tree
	Grid       Tree
	Borders    Tree
	Shadows    Tree
	Effects    Tree
	Appearance Appearance
	// Extra holds top-level branches the model does not recognise.
	Extra Tree
}

// IsEmpty reports whether no branch carries any value.
func (t DesignTokens) IsEmpty() bool {
	return len(t.Colors) == 0 &&
		len(t.Palettes) == 0 &&
		len(t.Typography) == 0 &&
		len(t.Spacing) == 0 &&
		len(t.Grid) == 0 &&
		len(t.Borders) == 0 &&
		len(t.Shadows) == 0 &&
		len(t.Effects) == 0 &&
		t.Appearance == "" &&
		len(t.Extra) == 0
}

// Color returns the token for role, if present.
func (t DesignTokens) Color(role string) (ColorToken, bool) {
	token, ok := t.Colors[role]
	return token, ok
}

// Clone copies every branch so the result can be modified independently.
func (t DesignTokens) Clone() DesignTokens {
	out := DesignTokens{
		Palettes:   t.Palettes.Clone(),
		Typography: t.Typography.Clone(),
		Spacing:    t.Spacing.Clone(),
		Grid:       t.Grid.Clone(),
		Borders:    t.Borders.Clone(),
		Shadows:    t.Shadows.Clone(),
		Effects:    t.Effects.Clone(),
		Appearance: t.Appearance,
		Extra:      t.Extra.Clone(),
	}
	if t.Colors != nil {
		out.Colors = make(map[string]ColorToken, len(t.Colors))
		for role, token := range t.Colors {
			out.Colors[role] = token
		}
	}
	return out
}

// Tree converts the tokens to their schema form. Absent branches are omitted.
func (t DesignTokens) Tree() Tree {
	tree := make(Tree)
	for key, v := range t.Extra {
		tree[key] = cloneValue(v)
	}

	if len(t.Colors) > 0 {
		colors := make(Tree, len(t.Colors))
		for role, token := range t.Colors {
			if token != nil {
				colors[role] = token.treeValue()
			}
		}
		tree[BranchColors] = colors
	}

	for key, branch := range map[string]Tree{
		BranchPalettes:   t.Palettes,
		BranchTypography: t.Typography,
		BranchSpacing:    t.Spacing,
		BranchGrid:       t.Grid,
		BranchBorders:    t.Borders,
		BranchShadows:    t.Shadows,
		BranchEffects:    t.Effects,
	} {
		if len(branch) > 0 {
			tree[key] = branch.Clone()
		}
	}

	if t.Appearance != "" {
		tree[BranchAppearance] = string(t.Appearance)
	}
	return tree
}
