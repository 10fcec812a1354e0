package adapters

import (
	"slices"

	"github.com/de-tools/macro-atlas/pkg/markup"
	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/de-tools/macro-atlas/pkg/store/client"
)

func MapQueryResponseToDomain(query string, resp *client.QueryResponse) domain.QueryResult {
	tables := make([]domain.DataTable, 0, len(resp.Report.DataTables))
	for _, t := range resp.Report.DataTables {
		tables = append(tables, domain.DataTable{
			Title:   t.Title,
			Headers: slices.Clone(t.Headers),
			Rows:    t.Rows,
		})
	}

	return domain.QueryResult{
		Query: query,
		Visualization: domain.Visualization{
			Markup: markup.NewUntrusted(resp.Analysis.Visualization.PlotHTML),
			Spec:   slices.Clone([]byte(resp.Analysis.Visualization.PlotJSON)),
			Kind:   resp.Analysis.Visualization.VisType,
		},
		Report: domain.Report{
			Title:       resp.Report.Title,
			Summary:     resp.Report.Summary,
			KeyFindings: slices.Clone(resp.Report.KeyFindings),
			DataTables:  tables,
			Timestamp:   resp.Report.Timestamp,
		},
		AnalysisError: resp.Analysis.Error,
	}
}

// MapQueryResultToViews builds the three render views. Header and row order
// are kept exactly as received; each row is read through the headers.
func MapQueryResultToViews(result domain.QueryResult) domain.QueryViews {
	tables := make([]domain.TableView, 0, len(result.Report.DataTables))
	for _, t := range result.Report.DataTables {
		rows := make([][]string, 0, len(t.Rows))
		for _, r := range t.Rows {
			cells := make([]string, 0, len(t.Headers))
			for _, h := range t.Headers {
				cells = append(cells, FormatCell(r[h]))
			}
			rows = append(rows, cells)
		}
		tables = append(tables, domain.TableView{
			Title:   t.Title,
			Headers: slices.Clone(t.Headers),
			Rows:    rows,
		})
	}

	return domain.QueryViews{
		Visualization: result.Visualization.Markup,
		VisKind:       result.Visualization.Kind,
		Report: domain.ReportView{
			Title:       result.Report.Title,
			Summary:     result.Report.Summary,
			KeyFindings: slices.Clone(result.Report.KeyFindings),
			Timestamp:   result.Report.Timestamp,
		},
		Tables: tables,
	}
}
