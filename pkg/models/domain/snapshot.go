package domain

import "time"

// Snapshot is a saved explorer result.
type Snapshot struct {
	ID          int64
	CountryCode string
	Indicator   string
	Range       DateRange
	Rows        []DisplayRow
	CreatedAt   time.Time
}
