package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/macro-atlas/pkg/models/store"
	"github.com/de-tools/macro-atlas/pkg/store/sqlite"
)

var ErrNotFound = errors.New("snapshot not found")

// Store persists explorer results. List returns headers only; Get loads rows.
type Store interface {
	Save(ctx context.Context, snapshot store.Snapshot) (int64, error)
	List(ctx context.Context, limit int) ([]store.Snapshot, error)
	Get(ctx context.Context, id int64) (*store.Snapshot, error)
	Delete(ctx context.Context, id int64) error
}

type sqliteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &sqliteStore{
		db:  db,
		now: time.Now,
	}, nil
}

func (s *sqliteStore) Save(ctx context.Context, snapshot store.Snapshot) (int64, error) {
	tx := sqlite.GetTransaction(ctx)
	owned := tx == nil
	if owned {
		var err error
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			return 0, fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
	}

	createdAt := snapshot.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (country_code, indicator, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		snapshot.CountryCode,
		snapshot.Indicator,
		snapshot.StartDate,
		snapshot.EndDate,
		createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot id: %w", err)
	}

	if len(snapshot.Rows) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO snapshot_rows (snapshot_id, position, date, value)
			VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, fmt.Errorf("prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, row := range snapshot.Rows {
			if _, err := stmt.ExecContext(ctx, id, i, row.Date, row.Value); err != nil {
				return 0, fmt.Errorf("insert row: %w", err)
			}
		}
	}

	if owned {
		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("commit snapshot: %w", err)
		}
	}
	return id, nil
}

func (s *sqliteStore) List(ctx context.Context, limit int) ([]store.Snapshot, error) {
	query := `
		SELECT s.id, s.country_code, s.indicator, s.start_date, s.end_date, s.created_at,
			(SELECT COUNT(*) FROM snapshot_rows r WHERE r.snapshot_id = s.id)
		FROM snapshots s
		ORDER BY s.id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]store.Snapshot, 0)
	for rows.Next() {
		snapshot, err := scanSnapshot(rows, true)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

func (s *sqliteStore) Get(ctx context.Context, id int64) (*store.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, country_code, indicator, start_date, end_date, created_at
		FROM snapshots
		WHERE id = ?`, id)
	snapshot, err := scanSnapshot(row, false)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, value
		FROM snapshot_rows
		WHERE snapshot_id = ?
		ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query snapshot rows: %w", err)
	}
	defer rows.Close()

	snapshot.Rows = make([]store.SnapshotRow, 0)
	for rows.Next() {
		var r store.SnapshotRow
		if err := rows.Scan(&r.Date, &r.Value); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snapshot.Rows = append(snapshot.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	snapshot.RowCount = len(snapshot.Rows)
	return &snapshot, nil
}

func (s *sqliteStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_rows WHERE snapshot_id = ?`, id); err != nil {
		return fmt.Errorf("delete snapshot rows: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row scanner, withCount bool) (store.Snapshot, error) {
	var (
		snapshot  store.Snapshot
		createdAt string
	)
	dest := []interface{}{
		&snapshot.ID,
		&snapshot.CountryCode,
		&snapshot.Indicator,
		&snapshot.StartDate,
		&snapshot.EndDate,
		&createdAt,
	}
	if withCount {
		dest = append(dest, &snapshot.RowCount)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return snapshot, err
		}
		return snapshot, fmt.Errorf("scan snapshot: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return snapshot, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	snapshot.CreatedAt = t
	return snapshot, nil
}
