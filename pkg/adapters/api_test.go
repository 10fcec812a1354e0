package adapters

import (
	"testing"
	"time"

	"github.com/de-tools/macro-atlas/pkg/markup"
	"github.com/de-tools/macro-atlas/pkg/models/api"
	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMapSelectionToAPI(t *testing.T) {
	assert.Equal(t, api.Selection{CountryCode: "USA"}, MapSelectionToAPI(domain.Selection{CountryCode: "USA"}))

	sel := domain.Selection{
		CountryCode: "USA",
		Indicator:   "GDP",
		Range: &domain.DateRange{
			Start: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}
	assert.Equal(t, api.Selection{
		CountryCode: "USA",
		Indicator:   "GDP",
		StartDate:   "2015-01-01",
		EndDate:     "2024-12-31",
	}, MapSelectionToAPI(sel))
}

func TestMapRowsAndSummaryToAPI(t *testing.T) {
	rows := MapRowsToAPI([]domain.DisplayRow{{Date: "2020-01-01", Value: 1.005}, {Date: "2021-01-01", Value: 3}})
	want := []api.Row{{Date: "2020-01-01", Value: "1.00"}, {Date: "2021-01-01", Value: "3.00"}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("MapRowsToAPI() mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, MapSummaryToAPI(nil))
	assert.Equal(t, &api.Summary{Mean: "2.50", Min: "1.00", Max: "4.00"},
		MapSummaryToAPI(&domain.SummaryStats{Mean: 2.5, Min: 1, Max: 4}))
}

func TestMapQueryViewsToAPI_SanitizesMarkup(t *testing.T) {
	views := domain.QueryViews{
		Visualization: markup.NewUntrusted(`<div class="plot">chart</div><script>alert(1)</script>`),
		VisKind:       "line",
		Report:        domain.ReportView{Title: "GDP", Summary: "Up"},
		Tables: []domain.TableView{
			{Title: "t", Headers: []string{"year", "value"}, Rows: [][]string{{"2020", "1.00"}}},
		},
	}

	got := MapQueryViewsToAPI(views)
	assert.Contains(t, got.Visualization, "chart")
	assert.NotContains(t, got.Visualization, "script")
	assert.Equal(t, []string{}, got.Report.KeyFindings)
	assert.Equal(t, "line", got.VisKind)
	assert.Len(t, got.Tables, 1)
	assert.Equal(t, [][]string{{"2020", "1.00"}}, got.Tables[0].Rows)
}
