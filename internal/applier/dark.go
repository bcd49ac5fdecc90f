package applier

import (
	"github.com/codr1/brandkit/internal/color"
	"github.com/codr1/brandkit/internal/tokens"
)

// Fixed dark surface palette.
var darkSurfaces = map[string]string{
	tokens.RoleBackground:        "#0f172a",
	tokens.RoleForeground:        "#f8fafc",
	tokens.RoleSurface:           "#1e293b",
	tokens.RoleCard:              "#1e293b",
	tokens.RoleCardForeground:    "#f8fafc",
	tokens.RolePopover:           "#1e293b",
	tokens.RolePopoverForeground: "#f8fafc",
	tokens.RoleMuted:             "#1e293b",
	tokens.RoleMutedForeground:   "#94a3b8",
	tokens.RoleBorder:            "#334155",
	tokens.RoleInput:             "#334155",
}

// Brand roles keep their hue in the dark variant.
var brandRoles = []string{tokens.RolePrimary, tokens.RoleSecondary, tokens.RoleAccent, tokens.RoleRing}

const (
	darkNudgePercent = 5
	maxDarkNudges    = 20
)

// DarkBackground is the background of every derived dark variant.
var DarkBackground = color.MustParseHex(darkSurfaces[tokens.RoleBackground])

// DeriveDarkVariant returns a copy of t with surface roles replaced by the
// dark palette. Brand colors are kept unless they fall below normal-text
// contrast on the dark background, in which case they are lightened in 5%
// steps until they pass. t is not modified.
func DeriveDarkVariant(t tokens.DesignTokens) tokens.DesignTokens {
	out := t.Clone()
	if out.Colors == nil {
		out.Colors = make(map[string]tokens.ColorToken, len(darkSurfaces))
	}

	for role, hex := range darkSurfaces {
		out.Colors[role] = tokens.Solid{Color: color.MustParseHex(hex)}
	}

	for _, role := range brandRoles {
		token, ok := out.Colors[role]
		if !ok || token == nil {
			continue
		}
		out.Colors[role] = liftForDark(token)
	}

	out.Appearance = tokens.AppearanceDark
	return out
}

func liftForDark(token tokens.ColorToken) tokens.ColorToken {
	base := token.BaseColor()
	lifted := nudge(base)
	if lifted == base {
		return token
	}

	switch token.(type) {
	case tokens.Scaled:
		return tokens.NewScaled(lifted)
	default:
		return tokens.Solid{Color: lifted}
	}
}

func nudge(c color.Color) color.Color {
	for i := 0; i < maxDarkNudges && color.ContrastRatio(c, DarkBackground) < color.ThresholdNormalText; i++ {
		c = color.AdjustLightness(c, darkNudgePercent)
	}
	return c
}
