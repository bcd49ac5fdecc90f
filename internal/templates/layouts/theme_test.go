package layouts

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/codr1/brandkit/internal/applier"
	"github.com/codr1/brandkit/internal/compiler"
	"github.com/codr1/brandkit/internal/tokens"
)

func render(t *testing.T, render func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestThemeStyle(t *testing.T) {
	css := compiler.CompileSource(tokens.LegacyTheme{PrimaryColor: "#112233"}, "acme").String()

	got := render(t, func(b *bytes.Buffer) error { return ThemeStyle(css).Render(context.Background(), b) })
	if !strings.HasPrefix(got, `<style id="brandkit-theme">.theme-acme {`) {
		t.Fatalf("ThemeStyle() = %q", got)
	}
	if !strings.HasSuffix(got, "</style>") {
		t.Fatalf("ThemeStyle() missing closing tag: %q", got)
	}
}

func TestThemeStyleEmpty(t *testing.T) {
	got := render(t, func(b *bytes.Buffer) error { return ThemeStyle("  ").Render(context.Background(), b) })
	if got != "" {
		t.Fatalf("ThemeStyle(empty) = %q, want empty", got)
	}
}

func TestThemeStyleCannotCloseElement(t *testing.T) {
	got := render(t, func(b *bytes.Buffer) error {
		return ThemeStyle(".x{}</style><script>alert(1)</script>").Render(context.Background(), b)
	})
	if strings.Count(got, "</style>") != 1 {
		t.Fatalf("style element closed early: %q", got)
	}
}

func TestThemeStylesheetLink(t *testing.T) {
	got := render(t, func(b *bytes.Buffer) error {
		return ThemeStylesheetLink("Acme & Co").Render(context.Background(), b)
	})
	want := `<link rel="stylesheet" href="/themes/Acme%20&amp;%20Co/stylesheet.css">`
	if got != want {
		t.Fatalf("ThemeStylesheetLink() = %q, want %q", got, want)
	}
}

func TestBase(t *testing.T) {
	registry := applier.NewRegistry()
	sheet, _, err := registry.Apply("Ocean", compiler.CompileSource(tokens.LegacyTheme{PrimaryColor: "#0ea5e9"}, "acme"))
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	got := render(t, func(b *bytes.Buffer) error {
		return Base(PageData{Title: "Preview", Tenant: "acme", Sheet: sheet, Dark: true}, nil).Render(context.Background(), b)
	})
	for _, want := range []string{"<title>Preview</title>", `<body class="theme-acme dark">`, "--primary: #0ea5e9;"} {
		if !strings.Contains(got, want) {
			t.Fatalf("Base() missing %q in %s", want, got)
		}
	}
}

func TestBaseFallsBackToDefaultTheme(t *testing.T) {
	got := render(t, func(b *bytes.Buffer) error {
		return Base(PageData{Tenant: "acme"}, nil).Render(context.Background(), b)
	})
	if !strings.Contains(got, ".theme-acme {") {
		t.Fatalf("Base() missing default theme block: %s", got)
	}
	if !strings.Contains(got, "--primary: "+tokens.DefaultPrimary+";") {
		t.Fatalf("Base() missing default primary: %s", got)
	}
}
