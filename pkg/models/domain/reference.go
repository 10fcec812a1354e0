package domain

// Country is reference data loaded once per session.
type Country struct {
	Code   string
	Name   string
	Region string
}

// Indicator is keyed by Name, the value the explorer selects and sends as indicator_code.
type Indicator struct {
	Name        string
	Unit        string
	Code        string
	Category    string
	Description string
}
