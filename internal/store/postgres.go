package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the subset of pgx used by PostgresSource.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// PostgresSource reads table pages from PostgreSQL.
type PostgresSource struct {
	db DBTX
}

// NewPostgresSource wraps a pool or transaction.
func NewPostgresSource(db DBTX) *PostgresSource {
	return &PostgresSource{db: db}
}

// Page counts the table and reads one page ordered by spec.OrderBy.
func (s *PostgresSource) Page(ctx context.Context, spec Spec, req PageRequest) (*Page, error) {
	if len(spec.Columns) == 0 {
		return nil, fmt.Errorf("%w: %s has no columns", ErrUnknownTable, spec.Name)
	}

	var total int64
	if err := s.db.QueryRow(ctx, countQuery(spec)).Scan(&total); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "42P01" { // undefined_table
			return nil, fmt.Errorf("%w: %s", ErrUnknownTable, spec.Name)
		}
		return nil, fmt.Errorf("count rows: %w", err)
	}

	page, size, totalPages, offset := window(total, req)

	rows, err := s.db.Query(ctx, selectQuery(spec), size, offset)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}
		row := make(Row, len(spec.Columns))
		for i, col := range spec.Columns {
			if i < len(values) {
				row[col] = formatCell(values[i])
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &Page{
		Rows:       result,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}, nil
}

func countQuery(spec Spec) string {
	return "SELECT COUNT(*) FROM " + quoteIdentifier(spec.Name)
}

func selectQuery(spec Spec) string {
	cols := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		cols[i] = quoteIdentifier(c)
	}
	order := spec.OrderBy
	if order == "" {
		order = spec.Columns[0]
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s LIMIT $1 OFFSET $2",
		strings.Join(cols, ", "), quoteIdentifier(spec.Name), quoteIdentifier(order))
}

// quoteIdentifier quotes a SQL identifier to prevent injection.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// formatCell renders a database value as display text.
func formatCell(v any) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case pgtype.Numeric:
		if !val.Valid {
			return ""
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		if f.Float64 == float64(int64(f.Float64)) {
			return fmt.Sprintf("%.0f", f.Float64)
		}
		return fmt.Sprintf("%.2f", f.Float64)

	case pgtype.Date:
		if !val.Valid {
			return ""
		}
		return val.Time.Format("2006-01-02")

	case pgtype.Text:
		if !val.Valid {
			return ""
		}
		return val.String

	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02")

	case bool:
		if val {
			return "Yes"
		}
		return "No"

	case string:
		return val

	case [16]byte:
		return fmt.Sprintf("%x-%x-%x-%x-%x", val[0:4], val[4:6], val[6:8], val[8:10], val[10:16])

	default:
		return fmt.Sprintf("%v", v)
	}
}
