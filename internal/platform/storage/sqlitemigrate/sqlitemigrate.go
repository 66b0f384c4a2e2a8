// Package sqlitemigrate applies embedded SQL migrations to a SQLite
// database. Each file runs at most once; applied files are recorded in a
// ledger table keyed by their path inside the migration filesystem.
package sqlitemigrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const ledgerTable = "schema_migrations"

const upMarker = "-- +migrate Up"
const downMarker = "-- +migrate Down"

// ApplyMigrations runs every pending .sql file under dir, in lexical order.
// Only the "-- +migrate Up" section of each file executes.
func ApplyMigrations(db *sql.DB, fsys fs.FS, dir string) error {
	if db == nil {
		return fmt.Errorf("sql db is required")
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}

	files, err := fs.Glob(fsys, path.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(files)

	if err := ensureLedger(db); err != nil {
		return err
	}

	for _, file := range files {
		key := file
		if dir == "." {
			key = path.Base(file)
		}

		done, err := isRecorded(db, key)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", key, err)
		}
		if done {
			continue
		}

		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", key, err)
		}
		stmts := upSection(string(content))
		if strings.TrimSpace(stmts) == "" {
			continue
		}

		if err := applyOne(db, key, stmts); err != nil {
			return err
		}
	}

	return nil
}

func applyOne(db *sql.DB, key, stmts string) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", key, err)
	}

	if _, err := tx.Exec(stmts); err != nil {
		// Tolerate DDL replays against schemas created before the ledger
		// existed.
		if !isAlreadyExists(err) {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", key, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT OR IGNORE INTO "+ledgerTable+" (name, applied_at) VALUES (?, ?)",
		key, time.Now().UTC().UnixMilli(),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", key, err)
	}
	return nil
}

// upSection returns the statements between the Up and Down markers. Files
// without markers run whole.
func upSection(content string) string {
	up := strings.Index(content, upMarker)
	if up == -1 {
		return content
	}
	rest := content[up+len(upMarker):]
	if down := strings.Index(rest, downMarker); down != -1 {
		return rest[:down]
	}
	return rest
}

func isAlreadyExists(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate column name")
}

func ensureLedger(db *sql.DB) error {
	stmt := "CREATE TABLE IF NOT EXISTS " + ledgerTable + " (name TEXT PRIMARY KEY, applied_at INTEGER NOT NULL)"
	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("ensure migration ledger: %w", err)
	}
	return nil
}

func isRecorded(db *sql.DB, key string) (bool, error) {
	var one int
	err := db.QueryRow("SELECT 1 FROM "+ledgerTable+" WHERE name = ?", key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
