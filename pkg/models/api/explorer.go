package api

import "time"

// Selection dates use YYYY-MM-DD. Both dates empty means no range.
type Selection struct {
	CountryCode string `json:"country_code"`
	Indicator   string `json:"indicator"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

type Row struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type Summary struct {
	Mean string `json:"mean"`
	Min  string `json:"min"`
	Max  string `json:"max"`
}

type ExplorerPage struct {
	Status    string    `json:"status"`
	Loading   bool      `json:"loading"`
	Message   string    `json:"message,omitempty"`
	Selection Selection `json:"selection"`
	Order     string    `json:"order"`
	Page      int       `json:"page"`
	PageCount int       `json:"page_count"`
	Total     int       `json:"total"`
	Rows      []Row     `json:"rows"`
	Summary   *Summary  `json:"summary,omitempty"`
}

type Snapshot struct {
	ID          int64     `json:"id"`
	CountryCode string    `json:"country_code"`
	Indicator   string    `json:"indicator"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
	RowCount    int       `json:"row_count"`
	Rows        []Row     `json:"rows,omitempty"`
}

type SnapshotCreated struct {
	ID int64 `json:"id"`
}
