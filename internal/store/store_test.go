package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgtype"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name                                   string
		total                                  int64
		req                                    PageRequest
		wantPage, wantSize, wantPages, wantOff int
	}{
		{name: "defaults", total: 60, req: PageRequest{}, wantPage: 1, wantSize: DefaultPageSize, wantPages: 3, wantOff: 0},
		{name: "second page", total: 60, req: PageRequest{Page: 2, PageSize: 25}, wantPage: 2, wantSize: 25, wantPages: 3, wantOff: 25},
		{name: "clamped past end", total: 10, req: PageRequest{Page: 9, PageSize: 5}, wantPage: 2, wantSize: 5, wantPages: 2, wantOff: 5},
		{name: "empty table", total: 0, req: PageRequest{Page: 3, PageSize: 5}, wantPage: 1, wantSize: 5, wantPages: 1, wantOff: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size, pages, off := window(tt.total, tt.req)
			if page != tt.wantPage || size != tt.wantSize || pages != tt.wantPages || off != tt.wantOff {
				t.Errorf("window() = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
					page, size, pages, off, tt.wantPage, tt.wantSize, tt.wantPages, tt.wantOff)
			}
		})
	}
}

func TestMemorySource_Page(t *testing.T) {
	src := NewMemorySource()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		src.Put("letters", Row{"name": name, "secret": "x"})
	}
	spec := Spec{Name: "letters", Columns: []string{"name"}}

	page, err := src.Page(context.Background(), spec, PageRequest{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}

	want := &Page{
		Rows:       []Row{{"name": "c"}, {"name": "d"}},
		Total:      5,
		Page:       2,
		PageSize:   2,
		TotalPages: 3,
	}
	if diff := cmp.Diff(want, page); diff != "" {
		t.Errorf("Page() mismatch (-want +got):\n%s", diff)
	}
}

func TestMemorySource_UnknownTable(t *testing.T) {
	_, err := NewMemorySource().Page(context.Background(), Spec{Name: "nope"}, PageRequest{})
	if !errors.Is(err, ErrUnknownTable) {
		t.Errorf("error = %v, want ErrUnknownTable", err)
	}
}

func TestSelectQuery(t *testing.T) {
	got := selectQuery(Spec{Name: "users", Columns: []string{"name", `we"ird`}})
	want := `SELECT "name", "we""ird" FROM "users" ORDER BY "name" LIMIT $1 OFFSET $2`
	if got != want {
		t.Errorf("selectQuery() = %q, want %q", got, want)
	}

	got = selectQuery(Spec{Name: "users", Columns: []string{"name"}, OrderBy: "id"})
	if want := `SELECT "name" FROM "users" ORDER BY "id" LIMIT $1 OFFSET $2`; got != want {
		t.Errorf("selectQuery() = %q, want %q", got, want)
	}

	if got := countQuery(Spec{Name: "users"}); got != `SELECT COUNT(*) FROM "users"` {
		t.Errorf("countQuery() = %q", got)
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"bool true", true, "Yes"},
		{"bool false", false, "No"},
		{"time", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), "2024-01-15"},
		{"zero time", time.Time{}, ""},
		{"invalid text", pgtype.Text{}, ""},
		{"text", pgtype.Text{String: "x", Valid: true}, "x"},
		{"int", int64(42), "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCell(tt.in); got != tt.want {
				t.Errorf("formatCell(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
