// internal/templates/layouts/base.go
package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/codr1/brandkit/internal/applier"
	"github.com/codr1/brandkit/internal/scope"
)

type PageData struct {
	Title  string
	Tenant string
	Sheet  *applier.StyleSheet
	Dark   bool
}

// Base wraps content in a document whose body carries the tenant's scope
// class, so the theme's declarations cascade into the page.
func Base(data PageData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		scopeID := scope.Sanitize(data.Tenant)
		if data.Sheet != nil {
			scopeID = data.Sheet.Scope
		}
		title := data.Title
		if title == "" {
			title = "brandkit"
		}

		bodyClass := scope.Selector(scopeID)[1:]
		if data.Dark {
			bodyClass += " dark"
		}

		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(title)+`</title>`+
			`<script src="/static/js/htmx.min.js" defer></script>`); err != nil {
			return err
		}
		if err := ThemeStyle(themeCSS(data.Sheet, scopeID)).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</head><body class="`+templ.EscapeString(bodyClass)+`">`); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
