package adapters

import (
	"slices"

	"github.com/de-tools/macro-atlas/pkg/models/api"
	"github.com/de-tools/macro-atlas/pkg/models/domain"
)

func MapCountriesToAPI(countries []domain.Country) []api.Country {
	out := make([]api.Country, 0, len(countries))
	for _, c := range countries {
		out = append(out, api.Country{Code: c.Code, Name: c.Name, Region: c.Region})
	}
	return out
}

func MapIndicatorsToAPI(indicators []domain.Indicator) []api.Indicator {
	out := make([]api.Indicator, 0, len(indicators))
	for _, i := range indicators {
		out = append(out, api.Indicator{
			Name:        i.Name,
			Unit:        i.Unit,
			Code:        i.Code,
			Category:    i.Category,
			Description: i.Description,
		})
	}
	return out
}

func MapSelectionToAPI(sel domain.Selection) api.Selection {
	out := api.Selection{CountryCode: sel.CountryCode, Indicator: sel.Indicator}
	if sel.Range != nil {
		out.StartDate = sel.Range.Start.Format(domain.DateLayout)
		out.EndDate = sel.Range.End.Format(domain.DateLayout)
	}
	return out
}

func MapRowsToAPI(rows []domain.DisplayRow) []api.Row {
	out := make([]api.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, api.Row{Date: r.Date, Value: FormatValue(r.Value)})
	}
	return out
}

func MapSummaryToAPI(stats *domain.SummaryStats) *api.Summary {
	if stats == nil {
		return nil
	}
	return &api.Summary{
		Mean: FormatValue(stats.Mean),
		Min:  FormatValue(stats.Min),
		Max:  FormatValue(stats.Max),
	}
}

// MapQueryViewsToAPI sanitizes the visualization markup; raw remote HTML
// never leaves through this model.
func MapQueryViewsToAPI(views domain.QueryViews) api.QueryViews {
	tables := make([]api.Table, 0, len(views.Tables))
	for _, t := range views.Tables {
		tables = append(tables, api.Table{
			Title:   t.Title,
			Headers: slices.Clone(t.Headers),
			Rows:    t.Rows,
		})
	}
	findings := views.Report.KeyFindings
	if findings == nil {
		findings = []string{}
	}
	return api.QueryViews{
		Visualization: string(views.Visualization.Sanitize()),
		VisKind:       views.VisKind,
		Report: api.Report{
			Title:       views.Report.Title,
			Summary:     views.Report.Summary,
			KeyFindings: findings,
			Timestamp:   views.Report.Timestamp,
		},
		Tables: tables,
	}
}

func MapCollectionRunToAPI(run domain.CollectionRun) api.CollectionRun {
	return api.CollectionRun{Source: run.Source, Message: run.Message, StartedAt: run.StartedAt}
}

func MapSnapshotToAPI(snapshot domain.Snapshot, rowCount int) api.Snapshot {
	out := api.Snapshot{
		ID:          snapshot.ID,
		CountryCode: snapshot.CountryCode,
		Indicator:   snapshot.Indicator,
		StartDate:   snapshot.Range.Start.Format(domain.DateLayout),
		EndDate:     snapshot.Range.End.Format(domain.DateLayout),
		CreatedAt:   snapshot.CreatedAt,
		RowCount:    rowCount,
	}
	if len(snapshot.Rows) > 0 {
		out.Rows = MapRowsToAPI(snapshot.Rows)
	}
	return out
}
