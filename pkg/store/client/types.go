package client

import (
	"encoding/json"
	"time"
)

type Country struct {
	ID     int    `json:"id,omitempty"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
}

type Indicator struct {
	ID          int    `json:"id,omitempty"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Code        string `json:"code,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

type Observation struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type ObservationQuery struct {
	CountryCode   string
	IndicatorCode string
	Start         time.Time
	End           time.Time
}

type QueryRequest struct {
	Query string `json:"query"`
}

type QueryResponse struct {
	Analysis    Analysis        `json:"analysis"`
	Report      Report          `json:"report"`
	QueryResult json.RawMessage `json:"query_result,omitempty"`
}

type Analysis struct {
	Visualization Visualization `json:"visualization"`
	Error         string        `json:"error,omitempty"`
}

type Visualization struct {
	PlotHTML string          `json:"plot_html"`
	PlotJSON json.RawMessage `json:"plot_json,omitempty"`
	VisType  string          `json:"vis_type,omitempty"`
}

type Report struct {
	Title       string      `json:"title"`
	Summary     string      `json:"summary"`
	KeyFindings []string    `json:"key_findings"`
	DataTables  []DataTable `json:"data_tables"`
	Timestamp   string      `json:"timestamp,omitempty"`
}

type DataTable struct {
	Title   string           `json:"title"`
	Headers []string         `json:"headers"`
	Rows    []map[string]any `json:"rows"`
}

type CollectionSource string

const (
	SourceWorldBank CollectionSource = "world-bank"
	SourceAll       CollectionSource = "run-all"
)

type CollectionResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
