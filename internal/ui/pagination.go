package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
)

// pageWindow is how many pages are shown on each side of the current page.
const pageWindow = 2

// PageItemKind distinguishes the entries of a pagination control.
type PageItemKind int

const (
	PagePrevious PageItemKind = iota
	PageNumber
	PageEllipsis
	PageNext
)

var pageItemKindNames = [...]string{"previous", "page", "ellipsis", "next"}

func (k PageItemKind) String() string {
	if k < 0 || int(k) >= len(pageItemKindNames) {
		return "PageItemKind(" + strconv.Itoa(int(k)) + ")"
	}
	return pageItemKindNames[k]
}

// MarshalText encodes the kind by name.
func (k PageItemKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// PageItem is one entry of a pagination control.
type PageItem struct {
	Kind     PageItemKind `json:"kind"`
	Page     int          `json:"page"` // target page; 0 for ellipses
	Label    string       `json:"label"`
	Active   bool         `json:"active,omitempty"`
	Disabled bool         `json:"disabled,omitempty"`
}

// PageItems returns the entries of a pagination control for the given
// position: Previous, first page, current±2, last page, Next, with
// ellipses where the window does not reach an edge. It returns nil when
// there is at most one page. currentPage is clamped into range.
func PageItems(currentPage, totalPages int) []PageItem {
	if totalPages <= 1 {
		return nil
	}
	currentPage = max(1, min(currentPage, totalPages))

	items := []PageItem{{
		Kind:     PagePrevious,
		Page:     currentPage - 1,
		Label:    "Previous",
		Disabled: currentPage == 1,
	}}

	start := max(1, currentPage-pageWindow)
	end := min(totalPages, currentPage+pageWindow)

	if start > 1 {
		items = append(items, numberItem(1, currentPage))
		if start > 2 {
			items = append(items, ellipsisItem())
		}
	}
	for p := start; p <= end; p++ {
		items = append(items, numberItem(p, currentPage))
	}
	if end < totalPages {
		if end < totalPages-1 {
			items = append(items, ellipsisItem())
		}
		items = append(items, numberItem(totalPages, currentPage))
	}

	return append(items, PageItem{
		Kind:     PageNext,
		Page:     currentPage + 1,
		Label:    "Next",
		Disabled: currentPage == totalPages,
	})
}

func numberItem(page, current int) PageItem {
	return PageItem{Kind: PageNumber, Page: page, Label: strconv.Itoa(page), Active: page == current}
}

func ellipsisItem() PageItem {
	return PageItem{Kind: PageEllipsis, Label: "...", Disabled: true}
}

// PaginationOption configures CreatePagination.
type PaginationOption func(*paginationConfig)

type paginationConfig struct {
	href func(page int) string
}

// WithPageHref sets the link target of each page. The default is "?page=N".
func WithPageHref(href func(page int) string) PaginationOption {
	return func(c *paginationConfig) {
		c.href = href
	}
}

// Pagination is the handle returned by CreatePagination. It keeps no
// position: callers re-create it with the new page after onPageChange fires.
type Pagination struct {
	items        []PageItem
	onPageChange func(page int)
}

// CreatePagination renders a page control into the container, replacing its
// content. Nothing is rendered for a single page. It returns nil when the
// container does not exist.
func CreatePagination(doc *goquery.Document, containerID string, currentPage, totalPages int, onPageChange func(page int), opts ...PaginationOption) *Pagination {
	container := byID(doc, containerID)
	if missing(container) {
		return nil
	}

	cfg := paginationConfig{
		href: func(page int) string { return "?page=" + strconv.Itoa(page) },
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	container.Empty()
	p := &Pagination{
		items:        PageItems(currentPage, totalPages),
		onPageChange: onPageChange,
	}
	if len(p.items) == 0 {
		return p
	}

	container.AppendHtml(renderMarkup(paginationMarkup(p.items, cfg.href)))
	return p
}

// Items returns the rendered entries.
func (p *Pagination) Items() []PageItem {
	if p == nil {
		return nil
	}
	return p.items
}

// Click simulates following the link to page. onPageChange fires only when
// an enabled link targets that page; the return value reports whether it did.
func (p *Pagination) Click(page int) bool {
	if p == nil || p.onPageChange == nil {
		return false
	}
	for _, it := range p.items {
		if it.Kind == PageEllipsis || it.Disabled || it.Page != page {
			continue
		}
		p.onPageChange(page)
		return true
	}
	return false
}

func paginationMarkup(items []PageItem, href func(int) string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<nav aria-label="Page navigation"><ul class="pagination justify-content-center">`); err != nil {
			return err
		}
		for _, it := range items {
			class := "page-item"
			switch {
			case it.Active:
				class += " active"
			case it.Disabled:
				class += " disabled"
			}

			var inner string
			switch it.Kind {
			case PageEllipsis:
				inner = `<span class="page-link">...</span>`
			case PagePrevious:
				inner = pageLink(it, href, `aria-label="Previous"`, `<i class="fas fa-chevron-left"></i>`)
			case PageNext:
				inner = pageLink(it, href, `aria-label="Next"`, `<i class="fas fa-chevron-right"></i>`)
			default:
				inner = pageLink(it, href, "", esc(it.Label))
			}

			if _, err := fmt.Fprintf(w, `<li class="%s">%s</li>`, class, inner); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></nav>`)
		return err
	})
}

func pageLink(it PageItem, href func(int) string, extra, body string) string {
	target := "#"
	if !it.Disabled {
		target = href(it.Page)
	}
	if extra != "" {
		extra = " " + extra
	}
	return fmt.Sprintf(`<a class="page-link" href="%s" data-page="%d"%s>%s</a>`, esc(target), it.Page, extra, body)
}
