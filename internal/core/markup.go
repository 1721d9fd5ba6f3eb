package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"

	"github.com/JonMunkholm/uikit/internal/store"
	"github.com/JonMunkholm/uikit/internal/ui"
)

// Element ids of the preview document.
const (
	PreviewInputID     = "preview-input"
	PreviewContainerID = "preview-container"
)

func parseDocument(markup string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}

func parseComponent(c templ.Component) (*goquery.Document, error) {
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(&buf)
}

// tableMarkup renders the search box, table and pagination container of a
// table page.
func tableMarkup(def TableDefinition, page *store.Page) templ.Component {
	info := def.Info
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<div id="%s" class="table-view">`, templ.EscapeString(info.ViewID()))
		fmt.Fprintf(&b, `<input type="search" id="%s" class="form-control mb-3" placeholder="Search %s..." value="">`,
			templ.EscapeString(info.SearchID()), templ.EscapeString(strings.ToLower(info.Label)))
		fmt.Fprintf(&b, `<table id="%s" class="table table-hover align-middle"><thead><tr>`, templ.EscapeString(info.TableID()))
		for _, col := range def.Columns {
			if col.Sortable {
				fmt.Fprintf(&b, `<th data-sort="%s">%s</th>`, templ.EscapeString(col.Key), templ.EscapeString(col.Label))
			} else {
				fmt.Fprintf(&b, `<th>%s</th>`, templ.EscapeString(col.Label))
			}
		}
		b.WriteString(`</tr></thead><tbody>`)
		for _, row := range page.Rows {
			b.WriteString(`<tr>`)
			for _, col := range def.Columns {
				v := row[col.Key]
				fmt.Fprintf(&b, `<td data-%s="%s">%s</td>`,
					templ.EscapeString(col.Key), templ.EscapeString(v), templ.EscapeString(v))
			}
			b.WriteString(`</tr>`)
		}
		b.WriteString(`</tbody></table>`)
		fmt.Fprintf(&b, `<p class="text-muted small">%d rows</p>`, page.Total)
		fmt.Fprintf(&b, `<div id="%s"></div></div>`, templ.EscapeString(info.PaginationID()))

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func previewMarkup() string {
	return `<input type="file" id="` + PreviewInputID + `" name="file">` +
		`<div id="` + PreviewContainerID + `"></div>`
}

// HTML returns the markup of the table view.
func (v *TableView) HTML() (string, error) {
	return goquery.OuterHtml(v.Doc.Find("#" + v.Info.ViewID()))
}

// HTML returns the form markup, including any error markers. Password
// values are not rendered.
func (v *FormView) HTML() (string, error) {
	ui.ClearSecrets(v.Form())
	return v.Doc.Find("body").Html()
}
