// internal/templates/components/themes/types.go
package themes

import (
	"github.com/codr1/brandkit/internal/color"
	"github.com/codr1/brandkit/internal/models"
	"github.com/codr1/brandkit/internal/tokens"
)

type Theme struct {
	models.Theme
	IsActive bool
}

// ContrastPair is one foreground/background check shown with a preview.
type ContrastPair struct {
	Name       string                    `json:"name"`
	Foreground string                    `json:"foreground"`
	Background string                    `json:"background"`
	Result     color.AccessibilityResult `json:"result"`
}

type ThemePreviewData struct {
	Tenant        string             `json:"tenant"`
	ScopeID       string             `json:"scopeId"`
	CSS           string             `json:"css"`
	Fingerprint   string             `json:"fingerprint"`
	Diagnostics   tokens.Diagnostics `json:"diagnostics"`
	Accessibility []ContrastPair     `json:"accessibility"`
}

func NewTheme(theme models.Theme, activeThemeID int64) Theme {
	return Theme{
		Theme:    theme,
		IsActive: theme.ID != 0 && theme.ID == activeThemeID,
	}
}

func NewThemes(rows []models.Theme, activeThemeID int64) []Theme {
	themes := make([]Theme, len(rows))
	for i, row := range rows {
		themes[i] = NewTheme(row, activeThemeID)
	}
	return themes
}
