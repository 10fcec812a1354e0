package api

import "time"

type QueryRequest struct {
	Query string `json:"query"`
}

type Report struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	KeyFindings []string `json:"key_findings"`
	Timestamp   string   `json:"timestamp,omitempty"`
}

type Table struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// QueryViews carries the visualization already sanitized for embedding.
type QueryViews struct {
	Visualization string  `json:"visualization_html"`
	VisKind       string  `json:"vis_type,omitempty"`
	Report        Report  `json:"report"`
	Tables        []Table `json:"data_tables"`
}

type QueryPage struct {
	Status  string      `json:"status"`
	Loading bool        `json:"loading"`
	Message string      `json:"message,omitempty"`
	Query   string      `json:"query,omitempty"`
	Views   *QueryViews `json:"views,omitempty"`
}

type CollectionRun struct {
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	StartedAt time.Time `json:"started_at"`
}

type CollectionStatus struct {
	Status  string         `json:"status"`
	Loading bool           `json:"loading"`
	Message string         `json:"message,omitempty"`
	Last    *CollectionRun `json:"last,omitempty"`
}

type Error struct {
	Error string `json:"error"`
}
