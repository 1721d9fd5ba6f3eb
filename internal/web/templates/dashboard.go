package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/uikit/internal/core"
)

// TableGroup is a dashboard section of tables.
type TableGroup struct {
	Name   string
	Tables []core.TableInfo
}

// Dashboard lists the registered tables by group and the registered forms.
func Dashboard(groups []TableGroup, forms []core.FormDefinition) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		for _, g := range groups {
			if _, err := fmt.Fprintf(w, `<section class="mb-4"><h2 class="h5">%s</h2><div class="list-group">`, esc(g.Name)); err != nil {
				return err
			}
			for _, t := range g.Tables {
				if _, err := fmt.Fprintf(w, `<a class="list-group-item list-group-item-action" href="/tables/%s">%s</a>`,
					esc(url.PathEscape(t.Key)), esc(t.Label)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</div></section>`); err != nil {
				return err
			}
		}

		if len(forms) > 0 {
			if _, err := io.WriteString(w, `<section class="mb-4"><h2 class="h5">Forms</h2><div class="list-group">`); err != nil {
				return err
			}
			for _, f := range forms {
				if _, err := fmt.Fprintf(w, `<a class="list-group-item list-group-item-action" href="/forms/%s">%s</a>`,
					esc(url.PathEscape(f.Key)), esc(f.Label)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</div></section>`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, previewPanel)
		return err
	})
}

const previewPanel = `<section class="mb-4"><h2 class="h5">Image preview</h2>
<form hx-post="/api/preview" hx-target="#preview-container" hx-encoding="multipart/form-data" hx-trigger="change">
<input type="file" class="form-control" name="file" accept="image/jpeg,image/png,image/gif">
</form>
<div id="preview-container" class="mt-3"></div></section>`
