package themes

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/codr1/brandkit/internal/models"
	"github.com/codr1/brandkit/internal/tokens"
)

func TestNewThemes(t *testing.T) {
	rows := []models.Theme{{ID: 1, Name: "Simple"}, {ID: 2, Name: "Ocean"}, {Name: "Unsaved"}}

	themes := NewThemes(rows, 2)
	if len(themes) != 3 {
		t.Fatalf("NewThemes() len = %d, want 3", len(themes))
	}
	if themes[0].IsActive || !themes[1].IsActive || themes[2].IsActive {
		t.Fatalf("NewThemes() active flags = %t %t %t, want false true false",
			themes[0].IsActive, themes[1].IsActive, themes[2].IsActive)
	}
	if NewTheme(models.Theme{}, 0).IsActive {
		t.Fatalf("NewTheme() with zero ids should not be active")
	}
}

func TestThemeList(t *testing.T) {
	themes := NewThemes([]models.Theme{
		{ID: 1, Name: "Simple", IsSystem: true},
		{ID: 7, Name: "<Acme>", TenantID: "acme"},
	}, 7)

	var buf bytes.Buffer
	if err := ThemeList(themes, "acme").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		`hx-put="/api/v1/tenants/acme/theme"`,
		`{"themeId": 7}`,
		`<li class="theme-item active" data-kind="tenant"><span>&lt;Acme&gt;</span>`,
		`data-kind="system"`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("ThemeList() missing %q in %s", want, got)
		}
	}
}

func TestPreviewPanel(t *testing.T) {
	data := ThemePreviewData{
		ScopeID:     "acme",
		CSS:         ".theme-acme {\n  --primary: #112233;\n}\n",
		Fingerprint: "abc",
		Diagnostics: tokens.Diagnostics{{Kind: tokens.KindInvalidColorFormat, Path: "textColor", Message: "<bad>"}},
		Accessibility: []ContrastPair{
			{Name: "primary"},
		},
	}

	var buf bytes.Buffer
	if err := PreviewPanel(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := buf.String()

	for _, want := range []string{`<style id="brandkit-theme">`, `class="theme-acme preview"`, `<tr class="fail">`, `data-kind="InvalidColorFormat"`} {
		if !strings.Contains(got, want) {
			t.Fatalf("PreviewPanel() missing %q in %s", want, got)
		}
	}
	if strings.Contains(got, "<bad>") {
		t.Fatalf("PreviewPanel() did not escape diagnostics: %s", got)
	}
}
