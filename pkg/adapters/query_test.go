package adapters

import (
	"testing"

	"github.com/de-tools/macro-atlas/pkg/store/client"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMapQueryResultToViews(t *testing.T) {
	resp := &client.QueryResponse{
		Analysis: client.Analysis{Visualization: client.Visualization{PlotHTML: "<div>chart</div>", VisType: "bar"}},
		Report: client.Report{
			Title:       "GDP of China and US",
			Summary:     "Both grew.",
			KeyFindings: []string{"third", "first", "second"},
			DataTables: []client.DataTable{{
				Title:   "GDP",
				Headers: []string{"year", "country", "value"},
				Rows: []map[string]any{
					{"country": "China", "value": 1234.5, "year": "2020"},
					{"country": "US", "value": float64(20), "year": "2021", "extra": "ignored"},
				},
			}},
		},
	}

	views := MapQueryResultToViews(MapQueryResponseToDomain("compare GDP of China and US for last 5 years", resp))

	assert.Equal(t, "<div>chart</div>", views.Visualization.Raw())
	assert.Equal(t, "bar", views.VisKind)
	assert.Equal(t, []string{"third", "first", "second"}, views.Report.KeyFindings)
	want := [][]string{
		{"2020", "China", "1234.50"},
		{"2021", "US", "20.00"},
	}
	if diff := cmp.Diff(want, views.Tables[0].Rows); diff != "" {
		t.Fatalf("table rows mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"year", "country", "value"}, views.Tables[0].Headers)
}

func TestMapQueryResultToViews_MissingCellIsEmpty(t *testing.T) {
	resp := &client.QueryResponse{Report: client.Report{DataTables: []client.DataTable{{
		Headers: []string{"a", "b"},
		Rows:    []map[string]any{{"a": "x"}},
	}}}}

	views := MapQueryResultToViews(MapQueryResponseToDomain("q", resp))

	assert.Equal(t, [][]string{{"x", ""}}, views.Tables[0].Rows)
}
