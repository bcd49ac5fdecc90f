// internal/db/themes_parser.go
package db

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/codr1/brandkit/internal/db/store"
	"github.com/codr1/brandkit/internal/models"
	"github.com/codr1/brandkit/internal/tokens"
)

//go:embed system_themes.yaml
var systemThemesYAML []byte

type systemThemeFile struct {
	Themes []systemThemeEntry `yaml:"themes"`
}

type systemThemeEntry struct {
	Name    string              `yaml:"name"`
	Default bool                `yaml:"default"`
	Brand   *tokens.BrandInputs `yaml:"brand"`
	Legacy  *tokens.LegacyTheme `yaml:"legacy"`
}

// SystemLibrary is the parsed system theme library.
type SystemLibrary struct {
	Themes      []models.Theme
	DefaultName string
}

// ParseSystemThemes reads the embedded library.
func ParseSystemThemes() (SystemLibrary, error) {
	return parseSystemThemes(systemThemesYAML)
}

func parseSystemThemes(data []byte) (SystemLibrary, error) {
	var file systemThemeFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return SystemLibrary{}, fmt.Errorf("parse system themes: %w", err)
	}
	if len(file.Themes) == 0 {
		return SystemLibrary{}, fmt.Errorf("system themes file defines no themes")
	}

	lib := SystemLibrary{Themes: make([]models.Theme, 0, len(file.Themes))}
	seen := make(map[string]bool, len(file.Themes))
	for i, entry := range file.Themes {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return SystemLibrary{}, fmt.Errorf("theme name missing at entry %d", i+1)
		}
		if seen[name] {
			return SystemLibrary{}, fmt.Errorf("duplicate system theme %q", name)
		}
		seen[name] = true

		if entry.Default {
			if lib.DefaultName != "" {
				return SystemLibrary{}, fmt.Errorf("multiple default themes: %q and %q", lib.DefaultName, name)
			}
			lib.DefaultName = name
		}

		theme := models.Theme{Name: name, IsSystem: true}
		switch {
		case entry.Brand != nil && entry.Legacy != nil:
			return SystemLibrary{}, fmt.Errorf("theme %q sets both brand and legacy", name)
		case entry.Brand != nil:
			built, err := tokens.Build(*entry.Brand)
			if err != nil {
				return SystemLibrary{}, fmt.Errorf("build theme %q: %w", name, err)
			}
			theme.Source = tokens.TokenTheme{Name: name, Tokens: built.Tree()}
		case entry.Legacy != nil:
			theme.Source = *entry.Legacy
		default:
			return SystemLibrary{}, fmt.Errorf("theme %q sets neither brand nor legacy", name)
		}

		if err := theme.Validate(); err != nil {
			return SystemLibrary{}, fmt.Errorf("invalid theme %q: %w", name, err)
		}
		lib.Themes = append(lib.Themes, theme)
	}

	if lib.DefaultName == "" {
		return SystemLibrary{}, fmt.Errorf("no default system theme")
	}
	return lib, nil
}

// SeedSystemThemes upserts the embedded library in one transaction. Existing
// rows keep their ids, so tenant selections survive a reseed.
func (db *DB) SeedSystemThemes(ctx context.Context) (SystemLibrary, error) {
	lib, err := ParseSystemThemes()
	if err != nil {
		return SystemLibrary{}, err
	}

	err = db.RunInTx(ctx, func(tx *DB) error {
		for i, theme := range lib.Themes {
			kind, err := theme.Kind()
			if err != nil {
				return err
			}
			source, err := theme.SourceJSON()
			if err != nil {
				return fmt.Errorf("encode theme %q: %w", theme.Name, err)
			}
			row, err := tx.Queries.UpsertSystemTheme(ctx, store.UpsertSystemThemeParams{
				PublicID:   uuid.NewString(),
				Name:       theme.Name,
				SourceKind: kind,
				SourceJSON: source,
			})
			if err != nil {
				return fmt.Errorf("upsert theme %q: %w", theme.Name, err)
			}
			lib.Themes[i].ID = row.ID
			lib.Themes[i].PublicID = row.PublicID
			lib.Themes[i].CreatedAt = row.CreatedAt
			lib.Themes[i].UpdatedAt = row.UpdatedAt
		}
		return nil
	})
	if err != nil {
		return SystemLibrary{}, err
	}
	return lib, nil
}

// Default returns the library's default theme.
func (l SystemLibrary) Default() (models.Theme, bool) {
	for _, theme := range l.Themes {
		if theme.Name == l.DefaultName {
			return theme, true
		}
	}
	return models.Theme{}, false
}
