package client

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// OpenStorage opens (creating if needed) the on-device SQLite database that
// backs the draft store and the sync queue.
func OpenStorage(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := initTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init tables: %w", err)
	}

	return db, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS inspection_drafts (
			report_id TEXT PRIMARY KEY,
			template_id TEXT NOT NULL,
			record_id TEXT NOT NULL,
			payload TEXT NOT NULL,
			last_updated TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sync_queue (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_drafts_updated ON inspection_drafts(last_updated);
	`)

	return err
}
