// Package sqlite persists an audit mirror of the points ledger. The
// in-memory ledger stays authoritative; the archive exists so point history
// survives for inspection across restarts. It is append-only: rows are
// never updated or deleted.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lql-project/lql/internal/domain"
)

// Migrations returns the archive schema statements. Each string is a single
// SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ledger_archive (
			id         INTEGER PRIMARY KEY,
			user_id    INTEGER NOT NULL,
			amount     INTEGER NOT NULL,
			reason     TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_archive_user ON ledger_archive(user_id)`,
	}
}

// Archive is a SQLite-backed ledger mirror. It implements ledger.Archive.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens (and creates if missing) the archive database at path.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	for _, stmt := range Migrations() {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate archive: %w", err)
		}
	}
	return &Archive{db: db}, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error { return a.db.Close() }

// Append writes one ledger entry to the archive.
func (a *Archive) Append(e domain.LedgerEntry) error {
	_, err := a.db.Exec(
		`INSERT INTO ledger_archive (id, user_id, amount, reason, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Amount, e.Reason, e.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("archive entry %d: %w", e.ID, err)
	}
	return nil
}

// ListByUser returns the archived entries for a user in id order.
func (a *Archive) ListByUser(userID int64) ([]domain.LedgerEntry, error) {
	rows, err := a.db.Query(
		`SELECT id, user_id, amount, reason, created_at FROM ledger_archive WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	defer rows.Close()

	var out []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var ts string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Reason, &ts); err != nil {
			return nil, fmt.Errorf("scan archive row: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse archive timestamp: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
