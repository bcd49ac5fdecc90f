// internal/templates/components/themes/components.go
package themes

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/codr1/brandkit/internal/templates/layouts"
)

// ThemeList renders the library with an activate button per theme.
func ThemeList(themes []Theme, tenant string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		activateURL := "/api/v1/tenants/" + url.PathEscape(tenant) + "/theme"
		if _, err := io.WriteString(w, `<ul id="themes-list" hx-get="/api/v1/themes?tenant=`+
			templ.EscapeString(url.QueryEscape(tenant))+`" hx-trigger="refreshThemesList from:body" hx-swap="outerHTML">`); err != nil {
			return err
		}
		for _, theme := range themes {
			class := "theme-item"
			if theme.IsActive {
				class += " active"
			}
			kind := "tenant"
			if theme.IsSystem {
				kind = "system"
			}
			if _, err := fmt.Fprintf(w,
				`<li class="%s" data-kind="%s"><span>%s</span><button hx-put="%s" hx-vals='{"themeId": %d}' hx-ext="json-enc" hx-target="#theme-feedback">Use</button></li>`,
				class, kind, templ.EscapeString(theme.Name), templ.EscapeString(activateURL), theme.ID,
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul><div id="theme-feedback"></div>`)
		return err
	})
}

// PreviewPanel renders a compiled preview with its diagnostics and contrast
// checks. The fragment's own scope class wraps the sample so only it is
// restyled.
func PreviewPanel(data ThemePreviewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := layouts.ThemeStyle(data.CSS).Render(ctx, w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w,
			`<section class="theme-%s preview" data-fingerprint="%s"><button class="btn-primary">Primary</button><div class="card">Card</div></section>`,
			templ.EscapeString(data.ScopeID), templ.EscapeString(data.Fingerprint),
		); err != nil {
			return err
		}

		if len(data.Accessibility) > 0 {
			if _, err := io.WriteString(w, `<table class="contrast"><tbody>`); err != nil {
				return err
			}
			for _, pair := range data.Accessibility {
				verdict := "fail"
				if pair.Result.PassesNormalText {
					verdict = "pass"
				}
				if _, err := fmt.Fprintf(w, `<tr class="%s"><td>%s</td><td>%.2f:1</td></tr>`,
					verdict, templ.EscapeString(pair.Name), pair.Result.ContrastRatio); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</tbody></table>`); err != nil {
				return err
			}
		}

		if len(data.Diagnostics) == 0 {
			return nil
		}
		if _, err := io.WriteString(w, `<ul class="diagnostics">`); err != nil {
			return err
		}
		for _, d := range data.Diagnostics {
			if _, err := fmt.Fprintf(w, `<li data-kind="%s">%s</li>`,
				templ.EscapeString(string(d.Kind)), templ.EscapeString(d.String())); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
}
