// internal/models/themes.go
package models

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/codr1/brandkit/internal/color"
	"github.com/codr1/brandkit/internal/db/store"
	"github.com/codr1/brandkit/internal/tokens"
)

// Legacy text usually sits on large UI surfaces, so the AA large-text threshold applies.
const legacyMinTextContrast = color.ThresholdLargeText
const maxThemeNameLength = 100
const maxTenantIDLength = 64

var themeNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ()-]*$`)

// ErrUnknownSourceKind is returned for rows whose source_kind is not recognised.
var ErrUnknownSourceKind = errors.New("unknown theme source kind")

func IsHexColor(value string) bool {
	return color.IsHexColor(strings.TrimSpace(value))
}

type Theme struct {
	ID        int64         `json:"id"`
	PublicID  string        `json:"publicId"`
	TenantID  string        `json:"tenantId,omitempty"`
	Name      string        `json:"name"`
	IsSystem  bool          `json:"isSystem"`
	Source    tokens.Source `json:"source"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type ThemeQueries interface {
	ListSystemThemes(ctx context.Context) ([]store.Theme, error)
	ListTenantThemes(ctx context.Context, tenantID string) ([]store.Theme, error)
	GetActiveThemeID(ctx context.Context, tenantID string) (int64, error)
	GetTheme(ctx context.Context, id int64) (store.Theme, error)
}

// DefaultTheme is the token theme served when a tenant has nothing active.
func DefaultTheme() Theme {
	return Theme{
		Name:     "Default",
		IsSystem: true,
		Source:   tokens.TokenTheme{Name: "Default", Tokens: tokens.DefaultTree()},
	}
}

func (t Theme) Validate() error {
	trimmedName := strings.TrimSpace(t.Name)
	if trimmedName == "" {
		return fmt.Errorf("name is required")
	}
	if trimmedName != t.Name {
		return fmt.Errorf("name must not have leading or trailing whitespace")
	}
	if len(trimmedName) > maxThemeNameLength {
		return fmt.Errorf("name must be %d characters or fewer", maxThemeNameLength)
	}
	if !themeNameRegex.MatchString(trimmedName) {
		return fmt.Errorf("name may only contain letters, numbers, spaces, hyphens, and parentheses")
	}

	if t.IsSystem && t.TenantID != "" {
		return fmt.Errorf("system themes must not have a tenant")
	}
	if !t.IsSystem && t.TenantID == "" {
		return fmt.Errorf("tenant themes must have a tenant")
	}
	if len(t.TenantID) > maxTenantIDLength {
		return fmt.Errorf("tenant id must be %d characters or fewer", maxTenantIDLength)
	}

	switch src := t.Source.(type) {
	case tokens.LegacyTheme:
		return validateLegacy(src)
	case tokens.TokenTheme:
		return validateTokens(src)
	case nil:
		return fmt.Errorf("source is required")
	default:
		return fmt.Errorf("%w: %T", ErrUnknownSourceKind, t.Source)
	}
}

func validateLegacy(src tokens.LegacyTheme) error {
	if src.IsEmpty() {
		return fmt.Errorf("legacy theme must set at least one field")
	}

	colorFields := []struct {
		name  string
		value string
	}{
		{"primaryColor", src.PrimaryColor},
		{"secondaryColor", src.SecondaryColor},
		{"accentColor", src.AccentColor},
		{"backgroundColor", src.BackgroundColor},
		{"textColor", src.TextColor},
	}
	for _, field := range colorFields {
		if field.value == "" {
			continue
		}
		if _, err := color.ParseHex(field.value); err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
	}

	if src.TextColor != "" && src.BackgroundColor != "" {
		result, err := color.CheckAccessibility(src.TextColor, src.BackgroundColor)
		if err != nil {
			return err
		}
		if result.ContrastRatio < legacyMinTextContrast {
			return fmt.Errorf(
				"textColor must have contrast ratio >= %.1f with backgroundColor; got %.2f",
				legacyMinTextContrast,
				result.ContrastRatio,
			)
		}
	}

	if src.Appearance != "" {
		if _, ok := tokens.ParseAppearance(src.Appearance); !ok {
			return fmt.Errorf("appearance must be light, dark, or system")
		}
	}
	return nil
}

func validateTokens(src tokens.TokenTheme) error {
	if len(src.Tokens) == 0 {
		return fmt.Errorf("token theme must have tokens")
	}
	_, diags := tokens.Normalize(src)
	for _, diag := range diags {
		if diag.Kind == tokens.KindInvalidColorFormat {
			return diag.Err()
		}
	}
	return nil
}

// Kind is the source_kind column value for the theme's source.
func (t Theme) Kind() (string, error) {
	switch t.Source.(type) {
	case tokens.LegacyTheme:
		return store.SourceKindLegacy, nil
	case tokens.TokenTheme:
		return store.SourceKindTokens, nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownSourceKind, t.Source)
	}
}

// SourceJSON encodes the source for storage.
func (t Theme) SourceJSON() (string, error) {
	data, err := tokens.EncodeSource(t.Source)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Tokens normalizes the theme's source.
func (t Theme) Tokens() (tokens.DesignTokens, tokens.Diagnostics) {
	return tokens.Normalize(t.Source)
}

// Migrated converts a legacy theme to its token form. ok is false when the
// theme already carries tokens.
func (t Theme) Migrated() (Theme, tokens.Diagnostics, bool) {
	legacy, isLegacy := t.Source.(tokens.LegacyTheme)
	if !isLegacy {
		return t, nil, false
	}
	migrated, diags := tokens.Migrate(legacy)
	t.Source = tokens.TokenTheme{Name: t.Name, Tokens: migrated.Tree()}
	return t, diags, true
}

func GetSystemThemes(ctx context.Context, queries ThemeQueries) ([]Theme, error) {
	rows, err := queries.ListSystemThemes(ctx)
	if err != nil {
		return nil, err
	}
	return themesFromDB(rows)
}

func GetTenantThemes(ctx context.Context, queries ThemeQueries, tenantID string) ([]Theme, error) {
	rows, err := queries.ListTenantThemes(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return themesFromDB(rows)
}

// ListThemes returns the system library followed by the tenant's own themes.
func ListThemes(ctx context.Context, queries ThemeQueries, tenantID string) ([]Theme, error) {
	systemThemes, err := GetSystemThemes(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("list system themes: %w", err)
	}
	tenantThemes, err := GetTenantThemes(ctx, queries, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list tenant themes: %w", err)
	}
	return append(systemThemes, tenantThemes...), nil
}

// GetActiveTheme returns nil without error when the tenant has no selection
// or the selected row is gone.
func GetActiveTheme(ctx context.Context, queries ThemeQueries, tenantID string) (*Theme, error) {
	activeThemeID, err := queries.GetActiveThemeID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if activeThemeID <= 0 {
		return nil, nil
	}
	row, err := queries.GetTheme(ctx, activeThemeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	theme, err := ThemeFromDB(row)
	if err != nil {
		return nil, err
	}
	return &theme, nil
}

func themesFromDB(rows []store.Theme) ([]Theme, error) {
	results := make([]Theme, 0, len(rows))
	for _, row := range rows {
		theme, err := ThemeFromDB(row)
		if err != nil {
			return nil, err
		}
		results = append(results, theme)
	}
	return results, nil
}

// ThemeFromDB decodes a stored row. source_kind decides the variant, so a
// legacy row that happens to have a "tokens" key is still read as legacy.
func ThemeFromDB(row store.Theme) (Theme, error) {
	theme := Theme{
		ID:        row.ID,
		PublicID:  row.PublicID,
		TenantID:  row.TenantID,
		Name:      row.Name,
		IsSystem:  row.IsSystem,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	switch row.SourceKind {
	case store.SourceKindTokens:
		src, err := tokens.DecodeSource([]byte(row.SourceJSON))
		if err != nil {
			return Theme{}, fmt.Errorf("theme %d: %w", row.ID, err)
		}
		tokenTheme, ok := src.(tokens.TokenTheme)
		if !ok {
			return Theme{}, fmt.Errorf("theme %d: %w: tokens row without tokens", row.ID, tokens.ErrInvalidSource)
		}
		theme.Source = tokenTheme
	case store.SourceKindLegacy:
		var legacy tokens.LegacyTheme
		if err := json.Unmarshal([]byte(row.SourceJSON), &legacy); err != nil {
			return Theme{}, fmt.Errorf("theme %d: %w: %v", row.ID, tokens.ErrInvalidSource, err)
		}
		theme.Source = legacy
	default:
		return Theme{}, fmt.Errorf("theme %d: %w: %q", row.ID, ErrUnknownSourceKind, row.SourceKind)
	}

	return theme, nil
}
