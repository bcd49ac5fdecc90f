package db

import (
	"strings"
	"testing"

	"github.com/codr1/brandkit/internal/tokens"
)

func TestParseSystemThemes(t *testing.T) {
	lib, err := ParseSystemThemes()
	if err != nil {
		t.Fatalf("ParseSystemThemes() error = %v", err)
	}

	if len(lib.Themes) != 8 {
		t.Fatalf("ParseSystemThemes() theme count = %d, want 8", len(lib.Themes))
	}
	if lib.DefaultName != "Simple" {
		t.Fatalf("default system theme name = %q, want Simple", lib.DefaultName)
	}

	legacyCount := 0
	for _, theme := range lib.Themes {
		if !theme.IsSystem {
			t.Fatalf("theme %q is not marked system", theme.Name)
		}
		if err := theme.Validate(); err != nil {
			t.Fatalf("theme %q failed validation: %v", theme.Name, err)
		}
		if _, ok := theme.Source.(tokens.LegacyTheme); ok {
			legacyCount++
		}
	}
	if legacyCount != 2 {
		t.Fatalf("legacy theme count = %d, want 2", legacyCount)
	}

	def, ok := lib.Default()
	if !ok {
		t.Fatalf("Default() ok = false")
	}
	tokenTheme, ok := def.Source.(tokens.TokenTheme)
	if !ok {
		t.Fatalf("default theme source = %T, want tokens.TokenTheme", def.Source)
	}
	if got, _ := tokenTheme.Tokens.Lookup("colors", "primary", "base"); got != "#2563eb" {
		t.Fatalf("default colors.primary.base = %v, want #2563eb", got)
	}
}

func TestParseSystemThemesErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "empty",
			yaml:    "themes: []\n",
			wantErr: "no themes",
		},
		{
			name: "no_default",
			yaml: `themes:
  - name: A
    brand: {primary: "#112233"}
`,
			wantErr: "no default",
		},
		{
			name: "two_defaults",
			yaml: `themes:
  - name: A
    default: true
    brand: {primary: "#112233"}
  - name: B
    default: true
    brand: {primary: "#445566"}
`,
			wantErr: "multiple default",
		},
		{
			name: "duplicate",
			yaml: `themes:
  - name: A
    default: true
    brand: {primary: "#112233"}
  - name: A
    brand: {primary: "#445566"}
`,
			wantErr: "duplicate",
		},
		{
			name: "both_shapes",
			yaml: `themes:
  - name: A
    default: true
    brand: {primary: "#112233"}
    legacy: {primary_color: "#112233"}
`,
			wantErr: "both",
		},
		{
			name: "neither_shape",
			yaml: `themes:
  - name: A
    default: true
`,
			wantErr: "neither",
		},
		{
			name: "bad_brand_color",
			yaml: `themes:
  - name: A
    default: true
    brand: {primary: "navy"}
`,
			wantErr: "build theme",
		},
		{
			name: "unknown_field",
			yaml: `themes:
  - name: A
    default: true
    colour: "#112233"
`,
			wantErr: "parse system themes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSystemThemes([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("parseSystemThemes() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
