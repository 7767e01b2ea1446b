package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/fwielstra/vizplugins/domain"
)

// both sql.DB and sql.Tx implement this
type Executor interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func SaveSnapshot(exe Executor, snapshot domain.Snapshot) error {
	if _, err := exe.Exec("INSERT INTO snapshots (timestamp, name, plugin, options, spec) VALUES (?, ?, ?, ?, ?)", snapshot.Timestamp.UnixMilli(), snapshot.Name, snapshot.Plugin, snapshot.Options, snapshot.Spec); err != nil {
		return fmt.Errorf("SaveSnapshot(): error inserting %s: %w", snapshot.Name, err)
	}

	log.Printf("snapshot %s inserted", snapshot.Name)

	return nil
}

func SaveSnapshots(db *sql.DB, snapshots []domain.Snapshot) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("SaveSnapshots(): error starting db transaction: %w", err)
	}

	defer tx.Rollback()

	for _, s := range snapshots {
		if err := SaveSnapshot(tx, s); err != nil {
			return err
		}
	}

	return tx.Commit()
}

const selectSnapshots = "SELECT timestamp, name, plugin, options, spec FROM snapshots"

// LoadSnapshots returns all snapshots, oldest first.
func LoadSnapshots(db *sql.DB) ([]domain.Snapshot, error) {
	rows, err := db.Query(selectSnapshots + " ORDER BY timestamp ASC;")
	if err != nil {
		return nil, fmt.Errorf("LoadSnapshots(): %w", err)
	}
	return scanSnapshots(rows)
}

// LoadNamedSnapshots returns the snapshots saved under name, oldest first.
func LoadNamedSnapshots(db *sql.DB, name string) ([]domain.Snapshot, error) {
	rows, err := db.Query(selectSnapshots+" WHERE name=? ORDER BY timestamp ASC;", name)
	if err != nil {
		return nil, fmt.Errorf("LoadNamedSnapshots(): %w", err)
	}
	return scanSnapshots(rows)
}

func scanSnapshots(rows *sql.Rows) ([]domain.Snapshot, error) {
	defer rows.Close()

	var snapshots []domain.Snapshot
	for rows.Next() {
		var s domain.Snapshot
		var ts int64
		var options, spec sql.NullString
		if err := rows.Scan(&ts, &s.Name, &s.Plugin, &options, &spec); err != nil {
			return nil, err
		}
		s.Timestamp = time.UnixMilli(ts)
		s.Options = options.String
		s.Spec = spec.String
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}
