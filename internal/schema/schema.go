// Package schema creates and seeds the Postgres tables behind the bundled
// catalog.
package schema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/uikit/internal/catalog"
)

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var statements = []string{
	`CREATE TABLE IF NOT EXISTS uikit_users (
		email TEXT PRIMARY KEY,
		name  TEXT NOT NULL,
		role  TEXT NOT NULL DEFAULT '',
		city  TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS uikit_files (
		name  TEXT PRIMARY KEY,
		type  TEXT NOT NULL,
		size  TEXT NOT NULL,
		owner TEXT NOT NULL DEFAULT ''
	)`,
}

// Apply creates any missing tables.
func Apply(ctx context.Context, db Execer) error {
	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Seed inserts the bundled rows, leaving existing rows untouched.
func Seed(ctx context.Context, db Execer) error {
	for _, u := range catalog.Users {
		if _, err := db.Exec(ctx,
			`INSERT INTO uikit_users (email, name, role, city) VALUES ($1, $2, $3, $4) ON CONFLICT (email) DO NOTHING`,
			u["email"], u["name"], u["role"], u["city"]); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}
	for _, f := range catalog.Files() {
		if _, err := db.Exec(ctx,
			`INSERT INTO uikit_files (name, type, size, owner) VALUES ($1, $2, $3, $4) ON CONFLICT (name) DO NOTHING`,
			f["name"], f["type"], f["size"], f["owner"]); err != nil {
			return fmt.Errorf("seed files: %w", err)
		}
	}
	return nil
}
