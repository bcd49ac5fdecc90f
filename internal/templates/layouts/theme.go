// internal/templates/layouts/theme.go
package layouts

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/brandkit/internal/applier"
	"github.com/codr1/brandkit/internal/compiler"
	"github.com/codr1/brandkit/internal/models"
)

const themeStyleID = "brandkit-theme"

// ThemeStyle emits a compiled fragment as an inline style tag. An empty
// fragment renders nothing.
func ThemeStyle(css string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		css = strings.TrimSpace(css)
		if css == "" {
			return nil
		}
		if _, err := io.WriteString(w, `<style id="`+themeStyleID+`">`); err != nil {
			return err
		}
		if _, err := io.WriteString(w, escapeStyle(css)); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</style>")
		return err
	})
}

// ThemeStylesheetLink points at the served stylesheet for a tenant.
func ThemeStylesheetLink(tenant string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		href := "/themes/" + url.PathEscape(tenant) + "/stylesheet.css"
		_, err := io.WriteString(w, `<link rel="stylesheet" href="`+templ.EscapeString(href)+`">`)
		return err
	})
}

// themeCSS picks the applied fragment when there is one and falls back to
// the default theme compiled for the scope.
func themeCSS(sheet *applier.StyleSheet, scopeID string) string {
	if sheet != nil && sheet.CSS != "" {
		return sheet.CSS
	}
	return compiler.CompileSource(models.DefaultTheme().Source, scopeID).String()
}

// Compiled values never contain '<', but a closing tag must not be able to
// end the style element regardless.
func escapeStyle(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
