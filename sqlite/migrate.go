package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS snapshots (
	timestamp DATETIME NOT NULL,
	name TEXT NOT NULL,
	plugin TEXT NOT NULL,
	options TEXT,
	spec TEXT
);
`

const createSnapshotsIndex = `
CREATE INDEX IF NOT EXISTS snapshots_name ON snapshots (name, timestamp);
`

// OpenDatabase opens the sqlite database at path, creating its folder if
// needed.
func OpenDatabase(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		_ = os.MkdirAll(dir, 0755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("OpenDatabase(): error opening database: %w", err)
	}

	return db, nil
}

// TODO: add db versioning to check if migration is needed.
func MigrateTables(db *sql.DB) error {
	log.Println("Migrating tables...")

	for _, stmt := range []string{createSnapshotsTable, createSnapshotsIndex} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("MigrateTables(): %w", err)
		}
	}

	log.Print("Tables created")

	return nil
}
