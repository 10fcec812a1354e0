package adapters

import (
	"time"

	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/de-tools/macro-atlas/pkg/store/client"
)

var observationLayouts = []string{
	domain.DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// MapObservationToDisplayRow reformats the date and passes the value through
// unchanged. A date no layout accepts is kept verbatim with a zero Time.
func MapObservationToDisplayRow(obs client.Observation) domain.DisplayRow {
	row := domain.DisplayRow{Date: obs.Date, Value: obs.Value}
	if t, ok := ParseObservationDate(obs.Date); ok {
		row.Date = t.Format(domain.DateLayout)
		row.Time = t
	}
	return row
}

func MapObservationsToDisplayRows(observations []client.Observation) []domain.DisplayRow {
	rows := make([]domain.DisplayRow, 0, len(observations))
	for _, obs := range observations {
		rows = append(rows, MapObservationToDisplayRow(obs))
	}
	return rows
}

func ParseObservationDate(raw string) (time.Time, bool) {
	for _, layout := range observationLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func MapCountries(countries []client.Country) []domain.Country {
	out := make([]domain.Country, 0, len(countries))
	for _, c := range countries {
		out = append(out, domain.Country{Code: c.Code, Name: c.Name, Region: c.Region})
	}
	return out
}

func MapIndicators(indicators []client.Indicator) []domain.Indicator {
	out := make([]domain.Indicator, 0, len(indicators))
	for _, i := range indicators {
		out = append(out, domain.Indicator{
			Name:        i.Name,
			Unit:        i.Unit,
			Code:        i.Code,
			Category:    i.Category,
			Description: i.Description,
		})
	}
	return out
}
