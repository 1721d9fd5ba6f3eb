// Package store supplies the rows rendered into enhanced tables.
//
// Sources only page data; sorting and searching happen on the rendered page.
package store

import (
	"context"
	"errors"
)

// ErrUnknownTable is returned when a source holds no table by that name.
var ErrUnknownTable = errors.New("unknown table")

// DefaultPageSize is used when a request does not specify one.
const DefaultPageSize = 25

// Spec identifies a table and the columns to read.
type Spec struct {
	Name    string   // table name in the source
	Columns []string // column keys, in display order
	OrderBy string   // stable base order; defaults to the first column
}

// Row maps column keys to display text.
type Row map[string]string

// PageRequest selects a page. Page is 1-based.
type PageRequest struct {
	Page     int
	PageSize int
}

// Page is one page of rows with totals for the pagination control.
type Page struct {
	Rows       []Row
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// RowSource returns pages of table rows.
type RowSource interface {
	Page(ctx context.Context, spec Spec, req PageRequest) (*Page, error)
}

// window normalises a request against a row count and returns the page,
// page size, total pages and row offset.
func window(total int64, req PageRequest) (page, size, totalPages, offset int) {
	size = req.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	totalPages = int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}
	page = req.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, size, totalPages, (page - 1) * size
}
