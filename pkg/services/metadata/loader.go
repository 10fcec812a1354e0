package metadata

import (
	"context"

	"github.com/de-tools/macro-atlas/pkg/adapters"
	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/de-tools/macro-atlas/pkg/services/state"
	"github.com/de-tools/macro-atlas/pkg/store/client"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	countriesFailedMessage  = "Failed to load countries"
	indicatorsFailedMessage = "Failed to load indicators"
)

type Source interface {
	ListCountries(ctx context.Context) ([]client.Country, error)
	ListIndicators(ctx context.Context) ([]client.Indicator, error)
}

// Catalog is what the selection controls render. Loading stays true until
// both lists have settled.
type Catalog struct {
	Countries        []domain.Country
	Indicators       []domain.Indicator
	Loading          bool
	CountriesFailed  bool
	IndicatorsFailed bool
}

type Loader struct {
	source     Source
	countries  *state.Tracker[[]domain.Country]
	indicators *state.Tracker[[]domain.Indicator]
}

func NewLoader(source Source) *Loader {
	return &Loader{
		source:     source,
		countries:  state.NewTracker[[]domain.Country](state.ClearOnStart),
		indicators: state.NewTracker[[]domain.Indicator](state.ClearOnStart),
	}
}

// Load issues both list requests before waiting on either and commits the
// outcomes together. A failed list is logged and left empty; it never fails
// the other list.
func (l *Loader) Load(ctx context.Context) {
	logger := zerolog.Ctx(ctx)

	countriesCtx, countriesTicket := l.countries.Begin(ctx)
	indicatorsCtx, indicatorsTicket := l.indicators.Begin(ctx)

	var (
		countries     []client.Country
		indicators    []client.Indicator
		countriesErr  error
		indicatorsErr error
	)

	// Plain Group: a failure must not cancel the sibling request.
	var g errgroup.Group
	g.Go(func() error {
		countries, countriesErr = l.source.ListCountries(countriesCtx)
		return nil
	})
	g.Go(func() error {
		indicators, indicatorsErr = l.source.ListIndicators(indicatorsCtx)
		return nil
	})
	_ = g.Wait()

	if countriesErr != nil {
		logger.Error().Err(countriesErr).Msg("failed to load countries")
		l.countries.Reject(countriesTicket, countriesFailedMessage)
	} else {
		l.countries.Resolve(countriesTicket, adapters.MapCountries(countries))
	}

	if indicatorsErr != nil {
		logger.Error().Err(indicatorsErr).Msg("failed to load indicators")
		l.indicators.Reject(indicatorsTicket, indicatorsFailedMessage)
	} else {
		l.indicators.Resolve(indicatorsTicket, adapters.MapIndicators(indicators))
	}
}

// Catalog reports Loading until Load has settled both lists, including before
// Load has begun.
func (l *Loader) Catalog() Catalog {
	c := l.countries.Snapshot()
	i := l.indicators.Snapshot()

	catalog := Catalog{
		Loading:          pending(c) || pending(i),
		CountriesFailed:  c.Status == state.StatusFailed,
		IndicatorsFailed: i.Status == state.StatusFailed,
		Countries:        []domain.Country{},
		Indicators:       []domain.Indicator{},
	}
	if c.HasData {
		catalog.Countries = c.Data
	}
	if i.HasData {
		catalog.Indicators = i.Data
	}
	return catalog
}

func pending[T any](s state.State[T]) bool {
	return s.Loading() || s.Seq == 0
}

// Indicator looks up a loaded indicator by its name.
func (l *Loader) Indicator(name string) (domain.Indicator, bool) {
	for _, ind := range l.Catalog().Indicators {
		if ind.Name == name {
			return ind, true
		}
	}
	return domain.Indicator{}, false
}
