package sqlitemigrate

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func migrationFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestApplyMigrationsRunsUpSections(t *testing.T) {
	db := openTestDB(t)

	fsys := migrationFS(map[string]string{
		"0001_init.sql": "-- +migrate Up\nCREATE TABLE leagues(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE leagues;",
		"0002_fees.sql": "-- +migrate Up\nCREATE TABLE fees(amount INTEGER NOT NULL);",
	})

	if err := ApplyMigrations(db, fsys, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if !tableExists(t, db, "leagues") || !tableExists(t, db, "fees") {
		t.Fatal("expected up sections applied")
	}
	if count := countRows(t, db, ledgerTable); count != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", count)
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	fsys := migrationFS(map[string]string{
		"0001_init.sql": "-- +migrate Up\nCREATE TABLE leagues(id TEXT PRIMARY KEY);",
	})

	for i := 0; i < 3; i++ {
		if err := ApplyMigrations(db, fsys, ""); err != nil {
			t.Fatalf("apply pass %d: %v", i, err)
		}
	}

	if count := countRows(t, db, ledgerTable); count != 1 {
		t.Fatalf("expected single ledger row after replays, got %d", count)
	}
}

func TestApplyMigrationsFailureStaysUnrecorded(t *testing.T) {
	db := openTestDB(t)

	broken := migrationFS(map[string]string{
		"0001_init.sql": "-- +migrate Up\nCREAT TABLE leagues(id TEXT);",
	})
	if err := ApplyMigrations(db, broken, ""); err == nil {
		t.Fatal("expected broken migration to fail")
	}
	if count := countRows(t, db, ledgerTable); count != 0 {
		t.Fatalf("expected failed migration unrecorded, got %d rows", count)
	}

	fixed := migrationFS(map[string]string{
		"0001_init.sql": "-- +migrate Up\nCREATE TABLE leagues(id TEXT PRIMARY KEY);",
	})
	if err := ApplyMigrations(db, fixed, ""); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if count := countRows(t, db, ledgerTable); count != 1 {
		t.Fatalf("expected fixed migration recorded, got %d rows", count)
	}
}

func TestApplyMigrationsKeysByDirectory(t *testing.T) {
	db := openTestDB(t)
	fsys := migrationFS(map[string]string{
		"treasury/0001_init.sql": "-- +migrate Up\nCREATE TABLE leagues(id TEXT PRIMARY KEY);",
	})

	if err := ApplyMigrations(db, fsys, "treasury"); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	var key string
	if err := db.QueryRow("SELECT name FROM " + ledgerTable).Scan(&key); err != nil {
		t.Fatalf("read ledger key: %v", err)
	}
	if key != "treasury/0001_init.sql" {
		t.Fatalf("expected directory-qualified key, got %q", key)
	}
}

func TestUpSection(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no markers", content: "CREATE TABLE x(a INTEGER);", want: "CREATE TABLE x(a INTEGER);"},
		{name: "up only", content: "-- +migrate Up\nCREATE TABLE x(a INTEGER);", want: "\nCREATE TABLE x(a INTEGER);"},
		{name: "up and down", content: "-- +migrate Up\nCREATE TABLE x(a INTEGER);\n-- +migrate Down\nDROP TABLE x;", want: "\nCREATE TABLE x(a INTEGER);\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := upSection(tc.content); got != tc.want {
				t.Fatalf("upSection = %q, want %q", got, tc.want)
			}
		})
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("count %s rows: %v", table, err)
	}
	return count
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("check table %s: %v", table, err)
	}
	return true
}
