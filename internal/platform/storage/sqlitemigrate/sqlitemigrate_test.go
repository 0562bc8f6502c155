package sqlitemigrate

import (
	"context"
	"database/sql"
	"reflect"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func count(t *testing.T, db *sql.DB, query string) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query).Scan(&n); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return n
}

func TestApplyMigrations(t *testing.T) {
	db := openDB(t)
	fsys := fstest.MapFS{
		"002_index.sql":  {Data: []byte("-- +migrate Up\nCREATE INDEX idx_items_name ON items(name);\n-- +migrate Down\nDROP INDEX idx_items_name;")},
		"001_create.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY, name TEXT);")},
		"README.md":      {Data: []byte("not a migration")},
	}

	applied, err := ApplyMigrations(context.Background(), db, fsys, "")
	if err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if want := []string{"001_create.sql", "002_index.sql"}; !reflect.DeepEqual(applied, want) {
		t.Fatalf("applied = %v, want %v", applied, want)
	}

	again, err := ApplyMigrations(context.Background(), db, fsys, ".")
	if err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("re-applied = %v, want none", again)
	}
	if got := count(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 2 {
		t.Fatalf("migration rows = %d, want 2", got)
	}
}

func TestApplyMigrationsSubdirectory(t *testing.T) {
	db := openDB(t)
	fsys := fstest.MapFS{
		"sql/001_create.sql": {Data: []byte("CREATE TABLE things(id INTEGER);")},
	}
	applied, err := ApplyMigrations(context.Background(), db, fsys, "sql")
	if err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if !reflect.DeepEqual(applied, []string{"sql/001_create.sql"}) {
		t.Fatalf("applied = %v", applied)
	}
}

func TestApplyMigrationsFailureIsNotRecorded(t *testing.T) {
	db := openDB(t)
	bad := fstest.MapFS{
		"001_bad.sql": {Data: []byte("-- +migrate Up\nCREAT TABLE things(id INT);")},
	}
	if _, err := ApplyMigrations(context.Background(), db, bad, ""); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if got := count(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 0 {
		t.Fatalf("migration rows = %d, want 0", got)
	}
}

func TestApplyMigrationsNilDB(t *testing.T) {
	if _, err := ApplyMigrations(context.Background(), nil, fstest.MapFS{}, ""); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestExtractUpMigration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CREATE TABLE a(x);", "CREATE TABLE a(x);"},
		{"-- +migrate Up\nCREATE TABLE a(x);", "\nCREATE TABLE a(x);"},
		{"-- +migrate Up\nA;\n-- +migrate Down\nB;", "\nA;\n"},
	}
	for _, tc := range tests {
		if got := ExtractUpMigration(tc.in); got != tc.want {
			t.Fatalf("ExtractUpMigration(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
