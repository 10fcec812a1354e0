package adapters

import (
	"time"

	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/de-tools/macro-atlas/pkg/models/store"
)

func MapSnapshotToRecord(snapshot domain.Snapshot) store.Snapshot {
	rows := make([]store.SnapshotRow, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		rows = append(rows, store.SnapshotRow{Date: row.Date, Value: row.Value})
	}
	return store.Snapshot{
		ID:          snapshot.ID,
		CountryCode: snapshot.CountryCode,
		Indicator:   snapshot.Indicator,
		StartDate:   snapshot.Range.Start.Format(domain.DateLayout),
		EndDate:     snapshot.Range.End.Format(domain.DateLayout),
		CreatedAt:   snapshot.CreatedAt,
		RowCount:    len(rows),
		Rows:        rows,
	}
}

func MapRecordToSnapshot(record store.Snapshot) domain.Snapshot {
	rows := make([]domain.DisplayRow, 0, len(record.Rows))
	for _, row := range record.Rows {
		display := domain.DisplayRow{Date: row.Date, Value: row.Value}
		if t, ok := ParseObservationDate(row.Date); ok {
			display.Time = t
		}
		rows = append(rows, display)
	}
	start, _ := time.Parse(domain.DateLayout, record.StartDate)
	end, _ := time.Parse(domain.DateLayout, record.EndDate)
	return domain.Snapshot{
		ID:          record.ID,
		CountryCode: record.CountryCode,
		Indicator:   record.Indicator,
		Range:       domain.DateRange{Start: start, End: end},
		Rows:        rows,
		CreatedAt:   record.CreatedAt,
	}
}
