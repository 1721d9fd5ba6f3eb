package core

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/JonMunkholm/uikit/internal/store"
	"github.com/JonMunkholm/uikit/internal/ui"
)

// TableInfo contains display information about a table.
type TableInfo struct {
	Key   string // Unique identifier: "users"
	Group string // Navigation group: "Directory"
	Label string // Display name: "Users"
}

// ColumnSpec describes one displayed column.
type ColumnSpec struct {
	Key      string // Row key, also the td data-<key> attribute
	Label    string // Header text
	Sortable bool   // Header gets data-sort
}

// TableDefinition contains everything needed to render a table.
type TableDefinition struct {
	Info    TableInfo
	Source  string // Table name in the row source; defaults to Info.Key
	Columns []ColumnSpec
	OrderBy string // Base order of the source query
}

// FormDefinition is a registered HTML form.
type FormDefinition struct {
	Key    string // URL key: "contact"
	Label  string
	FormID string // id of the form element inside Markup
	Markup string // HTML fragment containing the form
}

// ViewParams is the interaction replayed onto a table.
type ViewParams struct {
	Page   int
	Sort   string
	Dir    string
	Search string
}

// TableView is a rendered table page.
type TableView struct {
	Info       TableInfo
	Doc        *goquery.Document
	Page       *store.Page
	Sort       string
	Order      ui.SortOrder
	Search     string
	Visible    int
	Pagination []ui.PageItem
}

// FormView is a rendered, optionally validated, form.
type FormView struct {
	Definition FormDefinition
	Doc        *goquery.Document
	Validated  bool
	Valid      bool
	Errors     map[string]string // field name -> message
}

// PreviewResult is the outcome of a file selection.
type PreviewResult struct {
	Accepted bool
	Reason   string // rejection reason when not accepted
	Markup   string // preview container contents
}

// ConfirmParams configures a confirmation dialog.
type ConfirmParams struct {
	Message     string
	Title       string
	ConfirmText string
	CancelText  string
	ConfirmType string
}

// ID of the wrapper around a table view.
func (i TableInfo) ViewID() string { return i.Key + "-view" }

// ID of the table element.
func (i TableInfo) TableID() string { return i.Key + "-table" }

// ID of the search input.
func (i TableInfo) SearchID() string { return i.Key + "-search" }

// ID of the pagination container.
func (i TableInfo) PaginationID() string { return i.Key + "-pagination" }
