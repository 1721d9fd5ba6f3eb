package schema

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/uikit/internal/catalog"
)

type recordingExecer struct {
	stmts  []string
	failOn string
}

func (r *recordingExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if r.failOn != "" && strings.Contains(sql, r.failOn) {
		return pgconn.CommandTag{}, errors.New("boom")
	}
	r.stmts = append(r.stmts, sql)
	return pgconn.CommandTag{}, nil
}

func TestApply(t *testing.T) {
	rec := &recordingExecer{}
	if err := Apply(context.Background(), rec); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(rec.stmts) != 2 {
		t.Fatalf("executed %d statements, want 2", len(rec.stmts))
	}
	for _, s := range rec.stmts {
		if !strings.Contains(s, "IF NOT EXISTS") {
			t.Errorf("statement is not idempotent: %s", s)
		}
	}
}

func TestSeed(t *testing.T) {
	rec := &recordingExecer{}
	if err := Seed(context.Background(), rec); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	want := len(catalog.Users) + len(catalog.Files())
	if len(rec.stmts) != want {
		t.Errorf("executed %d inserts, want %d", len(rec.stmts), want)
	}
}

func TestSeed_Error(t *testing.T) {
	rec := &recordingExecer{failOn: "uikit_files"}
	err := Seed(context.Background(), rec)
	if err == nil || !strings.Contains(err.Error(), "seed files") {
		t.Errorf("Seed() error = %v, want seed files error", err)
	}
}
