package store

import "time"

type Snapshot struct {
	ID          int64
	CountryCode string
	Indicator   string
	StartDate   string
	EndDate     string
	CreatedAt   time.Time
	RowCount    int
	Rows        []SnapshotRow
}

type SnapshotRow struct {
	Date  string
	Value float64
}
