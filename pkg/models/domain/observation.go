package domain

import "time"

const DateLayout = "2006-01-02"

type Observation struct {
	Date  string
	Value float64
}

// DisplayRow is the render-ready form of one Observation. Time is the parsed
// Date and is zero when the raw date could not be parsed.
type DisplayRow struct {
	Date  string
	Value float64
	Time  time.Time
}

type SummaryStats struct {
	Mean float64
	Min  float64
	Max  float64
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// Selection holds the explorer inputs. Range is nil until set.
type Selection struct {
	CountryCode string
	Indicator   string
	Range       *DateRange
}

func (s Selection) Complete() bool {
	return s.CountryCode != "" && s.Indicator != "" && s.Range != nil
}
