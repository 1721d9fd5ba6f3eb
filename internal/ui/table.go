package ui

import (
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder is the direction of a column sort.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder maps "desc" (any case) to Descending and anything else to
// Ascending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(Descending)) {
		return Descending
	}
	return Ascending
}

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == Ascending {
		return Descending
	}
	return Ascending
}

const noResultsClass = "no-results"

// NoResultsText is the message of the synthetic empty-search row.
const NoResultsText = "No results found"

// TableOption configures MakeTableSortable.
type TableOption func(*tableConfig)

type tableConfig struct {
	locale language.Tag
}

// WithLocale sets the collation locale used to compare cell text.
func WithLocale(tag language.Tag) TableOption {
	return func(c *tableConfig) {
		c.locale = tag
	}
}

// SortableTable is the handle returned by MakeTableSortable.
type SortableTable struct {
	table    *goquery.Selection
	headers  *goquery.Selection
	collator *collate.Collator
}

// MakeTableSortable makes every th[data-sort] header of the table clickable.
// It returns nil when the table does not exist.
func MakeTableSortable(doc *goquery.Document, tableID string, opts ...TableOption) *SortableTable {
	table := byID(doc, tableID)
	if missing(table) {
		return nil
	}

	cfg := tableConfig{locale: language.English}
	for _, opt := range opts {
		opt(&cfg)
	}

	headers := table.Find("th[data-sort]")
	setStyle(headers, "cursor", "pointer")

	return &SortableTable{
		table:    table,
		headers:  headers,
		collator: collate.New(cfg.locale),
	}
}

// Click simulates a click on the header whose data-sort is column: the
// header's order toggles (ascending first) and rows are sorted by it.
// It returns the applied order, or "" when no such header exists.
func (t *SortableTable) Click(column string) SortOrder {
	if t == nil {
		return ""
	}
	header := t.header(column)
	if missing(header) {
		return ""
	}
	current, _ := header.Attr("data-order")
	order := Ascending
	if current == string(Ascending) {
		order = Descending
	}
	t.apply(header, column, order)
	return order
}

// SortBy sorts by column in the given order, as if the header had been
// clicked until it showed that order.
func (t *SortableTable) SortBy(column string, order SortOrder) bool {
	if t == nil {
		return false
	}
	header := t.header(column)
	if missing(header) {
		return false
	}
	t.apply(header, column, order)
	return true
}

// Columns returns the sort keys of the sortable headers in display order.
func (t *SortableTable) Columns() []string {
	if t == nil {
		return nil
	}
	var cols []string
	t.headers.Each(func(_ int, h *goquery.Selection) {
		v, _ := h.Attr("data-sort")
		cols = append(cols, v)
	})
	return cols
}

func (t *SortableTable) header(column string) *goquery.Selection {
	return t.headers.FilterFunction(func(_ int, h *goquery.Selection) bool {
		v, _ := h.Attr("data-sort")
		return v == column
	}).First()
}

func (t *SortableTable) apply(header *goquery.Selection, column string, order SortOrder) {
	header.SetAttr("data-order", string(order))

	t.headers.Find(".sort-indicator").Remove()
	icon := "fa-sort-up"
	if order == Descending {
		icon = "fa-sort-down"
	}
	header.AppendNodes(newElement("i", "class", "fas "+icon+" sort-indicator ms-1"))

	t.sortRows(column, order)
}

// sortRows reorders the tbody rows in place. The no-results row stays last.
func (t *SortableTable) sortRows(column string, order SortOrder) {
	tbody := t.table.Find("tbody").First()
	if tbody.Length() == 0 {
		return
	}
	body := tbody.Get(0)

	type keyed struct {
		node *html.Node
		key  string
	}
	var rows []keyed
	var trailer *html.Node
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "tr" {
			continue
		}
		if hasClass(c, noResultsClass) {
			trailer = c
			continue
		}
		rows = append(rows, keyed{node: c, key: cellText(c, column)})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if order == Descending {
			return t.collator.CompareString(rows[j].key, rows[i].key) < 0
		}
		return t.collator.CompareString(rows[i].key, rows[j].key) < 0
	})

	for _, r := range rows {
		body.RemoveChild(r.node)
		body.AppendChild(r.node)
	}
	if trailer != nil {
		body.RemoveChild(trailer)
		body.AppendChild(trailer)
	}
}

// cellText returns the text of the row's td[data-<column>] cell.
func cellText(row *html.Node, column string) string {
	key := "data-" + column
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "td" {
			continue
		}
		if _, ok := attrOf(c, key); ok {
			return textContent(c)
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attrOf(n, "class")
	for _, f := range strings.Fields(v) {
		if f == class {
			return true
		}
	}
	return false
}

// SearchableTable is the handle returned by MakeTableSearchable.
type SearchableTable struct {
	table *goquery.Selection
	input *goquery.Selection
}

// MakeTableSearchable wires the search input to the table.
// It returns nil when either element does not exist.
func MakeTableSearchable(doc *goquery.Document, tableID, inputID string) *SearchableTable {
	table := byID(doc, tableID)
	input := byID(doc, inputID)
	if missing(table) || missing(input) {
		return nil
	}
	return &SearchableTable{table: table, input: input}
}

// Input simulates typing term into the search box. Rows whose text does not
// contain term (case-insensitive) are hidden. It returns the number of data
// rows left visible.
func (t *SearchableTable) Input(term string) int {
	if t == nil {
		return 0
	}
	t.input.SetAttr("value", term)
	needle := strings.ToLower(term)

	visible := 0
	t.dataRows().Each(func(_ int, row *goquery.Selection) {
		show := strings.Contains(strings.ToLower(row.Text()), needle)
		setHidden(row, !show)
		if show {
			visible++
		}
	})

	setHidden(t.noResultsRow(), visible > 0)
	return visible
}

// Visible returns the number of data rows currently shown.
func (t *SearchableTable) Visible() int {
	if t == nil {
		return 0
	}
	n := 0
	t.dataRows().Each(func(_ int, row *goquery.Selection) {
		if !hidden(row) {
			n++
		}
	})
	return n
}

func (t *SearchableTable) dataRows() *goquery.Selection {
	return t.table.Find("tbody tr").Not("." + noResultsClass)
}

// noResultsRow returns the table's single no-results row, creating it on
// first use.
func (t *SearchableTable) noResultsRow() *goquery.Selection {
	row := t.table.Find("tr." + noResultsClass).First()
	if row.Length() > 0 {
		return row
	}

	tbody := t.table.Find("tbody").First()
	if tbody.Length() == 0 {
		return row
	}

	colspan := t.table.Find("thead th").Length()
	if colspan == 0 {
		colspan = 1
	}
	tr := newElement("tr", "class", noResultsClass)
	td := newElement("td", "colspan", strconv.Itoa(colspan), "class", "text-center py-4 text-muted")
	td.AppendChild(newText(NoResultsText))
	tr.AppendChild(td)
	tbody.Get(0).AppendChild(tr)

	return t.table.Find("tr." + noResultsClass).First()
}
