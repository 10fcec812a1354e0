package domain

import (
	"time"

	"github.com/de-tools/macro-atlas/pkg/markup"
)

// QueryResult is the analysis bundle returned for one natural language query.
type QueryResult struct {
	Query         string
	Visualization Visualization
	Report        Report
	AnalysisError string
}

type Visualization struct {
	Markup markup.Untrusted
	Spec   []byte // plot_json as received
	Kind   string
}

type Report struct {
	Title       string
	Summary     string
	KeyFindings []string
	DataTables  []DataTable
	Timestamp   string
}

// DataTable rows are keyed by header; cells are float64, string or whatever
// the decoder produced for other JSON types.
type DataTable struct {
	Title   string
	Headers []string
	Rows    []map[string]any
}

type ReportView struct {
	Title       string
	Summary     string
	KeyFindings []string
	Timestamp   string
}

type TableView struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// QueryViews are the three named views a consumer renders from one QueryResult.
type QueryViews struct {
	Visualization markup.Untrusted
	VisKind       string
	Report        ReportView
	Tables        []TableView
}

type CollectionRun struct {
	Source    string
	Message   string
	StartedAt time.Time
}
