package api

type Country struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
}

type Indicator struct {
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Code        string `json:"code,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

type Catalog struct {
	Countries        []Country   `json:"countries"`
	Indicators       []Indicator `json:"indicators"`
	Loading          bool        `json:"loading"`
	CountriesFailed  bool        `json:"countries_failed"`
	IndicatorsFailed bool        `json:"indicators_failed"`
}
