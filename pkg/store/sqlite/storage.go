package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const SnapshotSchema = `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		country_code TEXT NOT NULL,
		indicator TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
`
const SnapshotRowsSchema = `
	CREATE TABLE IF NOT EXISTS snapshot_rows (
		snapshot_id INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		date TEXT NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (snapshot_id, position)
	);
`

var bootQueries = []string{
	SnapshotSchema,
	SnapshotRowsSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", settings.DbPath))
	if err != nil {
		return nil, err
	}
	// one connection keeps :memory: databases shared and serialises writers
	db.SetMaxOpenConns(1)

	for _, query := range bootQueries {
		if _, err := db.ExecContext(context.Background(), query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return db, nil
}
