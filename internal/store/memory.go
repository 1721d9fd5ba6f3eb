package store

import (
	"context"
	"fmt"
	"sync"
)

// MemorySource serves rows held in memory. It is used for fixtures and when
// no database is configured.
type MemorySource struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

// NewMemorySource returns an empty source.
func NewMemorySource() *MemorySource {
	return &MemorySource{tables: make(map[string][]Row)}
}

// Put appends rows to a table, creating it if needed.
func (m *MemorySource) Put(table string, rows ...Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], rows...)
}

// Page returns a copy of the requested slice of rows in insertion order.
func (m *MemorySource) Page(ctx context.Context, spec Spec, req PageRequest) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, ok := m.tables[spec.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, spec.Name)
	}

	page, size, totalPages, offset := window(int64(len(rows)), req)
	end := min(offset+size, len(rows))

	out := make([]Row, 0, end-offset)
	for _, r := range rows[offset:end] {
		cp := make(Row, len(spec.Columns))
		for _, col := range spec.Columns {
			cp[col] = r[col]
		}
		out = append(out, cp)
	}

	return &Page{
		Rows:       out,
		Total:      int64(len(rows)),
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}, nil
}
