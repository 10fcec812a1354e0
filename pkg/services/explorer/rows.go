package explorer

import (
	"slices"

	"github.com/de-tools/macro-atlas/pkg/models/domain"
)

type Order int

const (
	Ascending Order = iota
	Descending
)

func (o Order) Toggle() Order {
	if o == Ascending {
		return Descending
	}
	return Ascending
}

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// ParseOrder accepts "asc" and "desc"; anything else is Ascending.
func ParseOrder(s string) Order {
	if s == "desc" {
		return Descending
	}
	return Ascending
}

// SortRows returns a copy of rows ordered by parsed date. Rows with an
// unparseable date have a zero Time and come first in ascending order.
func SortRows(rows []domain.DisplayRow, order Order) []domain.DisplayRow {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b domain.DisplayRow) int {
		c := a.Time.Compare(b.Time)
		if order == Descending {
			return -c
		}
		return c
	})
	return out
}

// Paginate returns the 1-based page of rows. Out of range pages are empty.
func Paginate(rows []domain.DisplayRow, page, size int) []domain.DisplayRow {
	if page < 1 || size < 1 {
		return []domain.DisplayRow{}
	}
	start := (page - 1) * size
	if start >= len(rows) {
		return []domain.DisplayRow{}
	}
	end := min(start+size, len(rows))
	return rows[start:end]
}

// Summarize computes mean, min and max over rows, or nil for no rows.
func Summarize(rows []domain.DisplayRow) *domain.SummaryStats {
	if len(rows) == 0 {
		return nil
	}
	stats := domain.SummaryStats{Min: rows[0].Value, Max: rows[0].Value}
	var sum float64
	for _, r := range rows {
		sum += r.Value
		stats.Min = min(stats.Min, r.Value)
		stats.Max = max(stats.Max, r.Value)
	}
	stats.Mean = sum / float64(len(rows))
	return &stats
}

func pageCount(total int) int {
	if total == 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}

func clampPage(page, pages int) int {
	return max(1, min(page, pages))
}
