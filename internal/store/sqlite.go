// Package store persists gait phase transitions in SQLite and exports runs
// as JSON.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schemaV1 = `
CREATE TABLE IF NOT EXISTS phase_transitions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	seq_no     INTEGER NOT NULL,
	clock      REAL NOT NULL,
	idx        INTEGER NOT NULL,
	from_phase TEXT NOT NULL,
	to_phase   TEXT NOT NULL,
	reason     TEXT NOT NULL,
	elapsed    REAL NOT NULL,
	direction  TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	UNIQUE(run_id, seq_no)
);
CREATE INDEX IF NOT EXISTS idx_transitions_run_seq ON phase_transitions(run_id, seq_no);
`

// NewDB opens a SQLite database at the given path with WAL enabled and
// creates the journal schema.
func NewDB(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}

func migrate(db *sql.DB) error {
	_, err := db.ExecContext(context.Background(), schemaV1)
	return err
}
