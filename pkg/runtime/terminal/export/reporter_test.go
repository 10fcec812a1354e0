package export

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/de-tools/macro-atlas/pkg/markup"
	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/de-tools/macro-atlas/pkg/models/store"
	"github.com/de-tools/macro-atlas/pkg/services/explorer"
	"github.com/de-tools/macro-atlas/pkg/services/query"
	"github.com/de-tools/macro-atlas/pkg/services/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selection() domain.Selection {
	return domain.Selection{
		CountryCode: "USA",
		Indicator:   "GDP",
		Range: &domain.DateRange{
			Start: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestReporter_Page(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	err := r.Page(explorer.View{
		Status:    state.StatusSuccess,
		Selection: selection(),
		Order:     explorer.Descending,
		Page:      1,
		PageCount: 2,
		Total:     12,
		Rows: []domain.DisplayRow{
			{Date: "2021-01-01", Value: 3},
			{Date: "2020-01-01", Value: 1.234},
		},
		Summary: &domain.SummaryStats{Mean: 2.117, Min: 1.234, Max: 3},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "USA / GDP (2015-01-01 to 2024-12-31)")
	assert.Contains(t, out, "Page 1 of 2, 12 rows, desc")
	assert.Contains(t, out, "| 2021-01-01   |                 3.00 |")
	assert.Contains(t, out, "| 2020-01-01   |                 1.23 |")
	assert.Contains(t, out, "| Mean         |                 2.12 |")
	assert.Contains(t, out, "| Max          |                 3.00 |")
}

func TestReporter_Page_FailedWithoutRows(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	require.NoError(t, r.Page(explorer.View{
		Status:    state.StatusFailed,
		Message:   "Failed to load data, please try again later.",
		Selection: domain.Selection{CountryCode: "USA", Indicator: "GDP"},
		Page:      1,
		PageCount: 1,
	}))

	out := buf.String()
	assert.Contains(t, out, "(- to -)")
	assert.Contains(t, out, "Failed to load data, please try again later.")
	assert.Contains(t, out, "No data")
	assert.NotContains(t, out, "Mean")
}

func TestReporter_Query(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	err := r.Query(query.View{
		Status: state.StatusSuccess,
		Query:  "compare GDP",
		Views: &domain.QueryViews{
			Visualization: markup.NewUntrusted("<div>plot</div>"),
			VisKind:       "line",
			Report: domain.ReportView{
				Title:       "GDP comparison",
				Summary:     "China grew faster.",
				KeyFindings: []string{"first", "second"},
				Timestamp:   "2025-01-01T00:00:00",
			},
			Tables: []domain.TableView{{
				Title:   "Means",
				Headers: []string{"country", "mean"},
				Rows:    [][]string{{"China", "1234.50"}, {"US", "n/a"}},
			}},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Query: compare GDP")
	assert.Contains(t, out, "=== GDP comparison ===")
	assert.Contains(t, out, "  1. first\n  2. second\n")
	assert.Contains(t, out, "--- Means ---")
	assert.Contains(t, out, "| country | mean    |")
	assert.Contains(t, out, "| China   | 1234.50 |")
	assert.Contains(t, out, "Visualization available (line)")
	assert.Contains(t, out, "Generated at 2025-01-01T00:00:00")
	assert.NotContains(t, out, "<div>")
}

func TestReporter_Query_Failed(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	require.NoError(t, r.Query(query.View{Status: state.StatusFailed, Message: "Query failed, please try again later."}))
	assert.Contains(t, buf.String(), "Query failed, please try again later.")
	assert.NotContains(t, buf.String(), "===")
}

func TestReporter_Snapshots(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	require.NoError(t, r.Snapshots(nil))
	assert.Equal(t, "No snapshots\n", buf.String())

	buf.Reset()
	require.NoError(t, r.Snapshots([]store.Snapshot{{
		ID:          3,
		CountryCode: "USA",
		Indicator:   "GDP",
		StartDate:   "2015-01-01",
		EndDate:     "2024-12-31",
		RowCount:    10,
		CreatedAt:   time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}}))
	assert.Contains(t, buf.String(), "| 3  | USA     | GDP       | 2015-01-01 to 2024-12-31 | 10   | 2025-03-01 08:00:00 |")
}

func TestReporter_Snapshot(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	sel := selection()
	require.NoError(t, r.Snapshot(domain.Snapshot{
		ID:          7,
		CountryCode: "USA",
		Indicator:   "GDP",
		Range:       *sel.Range,
		Rows:        []domain.DisplayRow{{Date: "2020-01-01", Value: 1.5}},
	}))
	assert.Contains(t, buf.String(), "Snapshot 7: USA / GDP (2015-01-01 to 2024-12-31)")
	assert.Contains(t, buf.String(), "| 2020-01-01   |                 1.50 |")
}

func TestRenderTable(t *testing.T) {
	got := renderTable([]string{"a", "long header"}, [][]string{{"value", "x"}, {"y"}})
	want := "" +
		"+-------+-------------+\n" +
		"| a     | long header |\n" +
		"+-------+-------------+\n" +
		"| value | x           |\n" +
		"| y     |             |\n" +
		"+-------+-------------+\n"
	assert.Equal(t, want, got)
}

func TestRenderTable_NonASCIIWidths(t *testing.T) {
	got := renderTable([]string{"code", "name"}, [][]string{{"CIV", "Côte d'Ivoire"}, {"DEU", "Germany"}})
	want := "" +
		"+------+---------------+\n" +
		"| code | name          |\n" +
		"+------+---------------+\n" +
		"| CIV  | Côte d'Ivoire |\n" +
		"| DEU  | Germany       |\n" +
		"+------+---------------+\n"
	assert.Equal(t, want, got)

	for _, line := range strings.Split(strings.TrimSuffix(got, "\n"), "\n") {
		assert.Equal(t, 24, utf8.RuneCountInString(line), line)
	}
}
