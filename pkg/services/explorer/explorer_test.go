package explorer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/de-tools/macro-atlas/pkg/adapters"
	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/de-tools/macro-atlas/pkg/services/state"
	"github.com/de-tools/macro-atlas/pkg/store/client"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListObservations(ctx context.Context, q client.ObservationQuery) ([]client.Observation, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Observation), args.Error(1)
}

var (
	fixedNow   = time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC)
	rangeStart = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
)

func newSelectedExplorer(src Source) *Explorer {
	e := New(src, WithClock(func() time.Time { return fixedNow }))
	e.SelectCountry("USA")
	e.SelectIndicator("GDP")
	e.SelectDateRange(rangeStart, rangeEnd)
	return e
}

func expectedQuery() client.ObservationQuery {
	return client.ObservationQuery{CountryCode: "USA", IndicatorCode: "GDP", Start: rangeStart, End: rangeEnd}
}

func observations(n int) []client.Observation {
	out := make([]client.Observation, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, client.Observation{
			Date:  fmt.Sprintf("%d-01-01T00:00:00", 2000+i),
			Value: float64(i+1) + 0.125,
		})
	}
	return out
}

func TestNew_DefaultDateRange(t *testing.T) {
	e := New(new(mockSource), WithClock(func() time.Time { return fixedNow }))

	sel := e.Selection()
	require.NotNil(t, sel.Range)
	assert.Equal(t, fixedNow.AddDate(-10, 0, 0), sel.Range.Start)
	assert.Equal(t, fixedNow, sel.Range.End)
	assert.False(t, sel.Complete())
}

func TestSearch_MapsEveryObservation(t *testing.T) {
	src := new(mockSource)
	obs := observations(3)
	src.On("ListObservations", mock.Anything, expectedQuery()).Return(obs, nil)
	e := newSelectedExplorer(src)

	require.NoError(t, e.Search(context.Background()))

	rows := e.Rows()
	require.Len(t, rows, len(obs))
	for i, row := range rows {
		assert.Equal(t, obs[i].Value, row.Value)
		assert.Equal(t, fmt.Sprintf("%d-01-01", 2000+i), row.Date)
	}
	view := e.View()
	assert.Equal(t, state.StatusSuccess, view.Status)
	assert.False(t, view.Loading)
	src.AssertExpectations(t)
}

func TestSearch_Idempotent(t *testing.T) {
	src := new(mockSource)
	src.On("ListObservations", mock.Anything, expectedQuery()).Return(observations(12), nil)
	e := newSelectedExplorer(src)

	require.NoError(t, e.Search(context.Background()))
	first := e.Rows()
	require.NoError(t, e.Search(context.Background()))
	second := e.Rows()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("rows differ between identical searches (-first +second):\n%s", diff)
	}
	src.AssertNumberOfCalls(t, "ListObservations", 2)
}

func TestSearch_IncompleteSelectionIssuesNoRequest(t *testing.T) {
	tests := []struct {
		name  string
		setup func(e *Explorer)
	}{
		{name: "indicator unset", setup: func(e *Explorer) { e.SelectCountry("USA") }},
		{name: "country unset", setup: func(e *Explorer) { e.SelectIndicator("GDP") }},
		{name: "range cleared", setup: func(e *Explorer) {
			e.SelectCountry("USA")
			e.SelectIndicator("GDP")
			e.ClearDateRange()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := new(mockSource)
			e := New(src)
			tt.setup(e)

			assert.NoError(t, e.Search(context.Background()))

			src.AssertNotCalled(t, "ListObservations", mock.Anything, mock.Anything)
			assert.Equal(t, state.StatusIdle, e.View().Status)
		})
	}
}

func TestSearch_InvalidDateRange(t *testing.T) {
	src := new(mockSource)
	e := newSelectedExplorer(src)
	e.SelectDateRange(rangeEnd, rangeStart)

	err := e.Search(context.Background())

	assert.ErrorIs(t, err, ErrInvalidDateRange)
	src.AssertNotCalled(t, "ListObservations", mock.Anything, mock.Anything)
}

func TestSearch_FailureKeepsPreviousRows(t *testing.T) {
	src := new(mockSource)
	src.On("ListObservations", mock.Anything, expectedQuery()).Return(observations(10), nil).Once()
	src.On("ListObservations", mock.Anything, expectedQuery()).Return(nil, errors.New("connection reset")).Once()
	e := newSelectedExplorer(src)

	require.NoError(t, e.Search(context.Background()))
	err := e.Search(context.Background())

	assert.ErrorIs(t, err, ErrRequestFailed)
	view := e.View()
	assert.False(t, view.Loading)
	assert.Equal(t, state.StatusFailed, view.Status)
	assert.Equal(t, failedMessage, view.Message)
	assert.Len(t, view.Rows, 10)
	assert.NotContains(t, view.Message, "connection reset")
}

// gatedSource answers each call only once its gate is released, regardless
// of cancellation, to simulate responses arriving out of order.
type gatedSource struct {
	started chan int
	gates   []chan []client.Observation
	calls   int
}

func (g *gatedSource) ListObservations(_ context.Context, _ client.ObservationQuery) ([]client.Observation, error) {
	i := g.calls
	g.calls++
	g.started <- i
	return <-g.gates[i], nil
}

func TestSearch_StaleResponseIsDiscarded(t *testing.T) {
	src := &gatedSource{
		started: make(chan int),
		gates:   []chan []client.Observation{make(chan []client.Observation), make(chan []client.Observation)},
	}
	e := newSelectedExplorer(src)
	ctx := context.Background()

	firstErr := make(chan error)
	go func() { firstErr <- e.Search(ctx) }()
	<-src.started

	secondErr := make(chan error)
	go func() { secondErr <- e.Search(ctx) }()
	<-src.started

	src.gates[1] <- []client.Observation{{Date: "2024-01-01", Value: 2}}
	require.NoError(t, <-secondErr)

	src.gates[0] <- []client.Observation{{Date: "1999-01-01", Value: 1}, {Date: "1998-01-01", Value: 1}}
	assert.ErrorIs(t, <-firstErr, ErrSuperseded)

	rows := e.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-01-01", rows[0].Date)
}

func TestCancel_DropsInFlightResponse(t *testing.T) {
	src := &gatedSource{
		started: make(chan int),
		gates:   []chan []client.Observation{make(chan []client.Observation)},
	}
	e := newSelectedExplorer(src)

	errCh := make(chan error)
	go func() { errCh <- e.Search(context.Background()) }()
	<-src.started
	assert.True(t, e.View().Loading)

	e.Cancel()
	assert.False(t, e.View().Loading)
	src.gates[0] <- []client.Observation{{Date: "2024-01-01", Value: 2}}

	assert.ErrorIs(t, <-errCh, ErrSuperseded)
	assert.Empty(t, e.Rows())
	assert.Equal(t, state.StatusIdle, e.View().Status)
}

func TestCancel_AfterSupersededSearchClearsLoading(t *testing.T) {
	src := &gatedSource{
		started: make(chan int),
		gates: []chan []client.Observation{
			make(chan []client.Observation),
			make(chan []client.Observation),
			make(chan []client.Observation),
		},
	}
	e := newSelectedExplorer(src)
	ctx := context.Background()

	done := make(chan error)
	go func() { done <- e.Search(ctx) }()
	<-src.started
	src.gates[0] <- []client.Observation{{Date: "2024-01-01", Value: 2}}
	require.NoError(t, <-done)

	first := make(chan error)
	go func() { first <- e.Search(ctx) }()
	<-src.started
	second := make(chan error)
	go func() { second <- e.Search(ctx) }()
	<-src.started
	require.True(t, e.View().Loading)

	e.Cancel()

	view := e.View()
	assert.False(t, view.Loading)
	assert.Equal(t, state.StatusSuccess, view.Status)
	require.Len(t, view.Rows, 1)

	src.gates[1] <- nil
	src.gates[2] <- nil
	assert.ErrorIs(t, <-first, ErrSuperseded)
	assert.ErrorIs(t, <-second, ErrSuperseded)
	assert.False(t, e.View().Loading)
}

func TestView_SummaryIsPerPage(t *testing.T) {
	src := new(mockSource)
	obs := make([]client.Observation, 0, 25)
	for i := 1; i <= 25; i++ {
		obs = append(obs, client.Observation{Date: fmt.Sprintf("%d-06-30", 1990+i), Value: float64(i)})
	}
	src.On("ListObservations", mock.Anything, expectedQuery()).Return(obs, nil)
	e := newSelectedExplorer(src)
	require.NoError(t, e.Search(context.Background()))

	view := e.View()
	assert.Equal(t, 3, view.PageCount)
	assert.Equal(t, 25, view.Total)
	require.Len(t, view.Rows, PageSize)
	require.NotNil(t, view.Summary)
	assert.Equal(t, domain.SummaryStats{Mean: 5.5, Min: 1, Max: 10}, *view.Summary)

	assert.Equal(t, 3, e.SetPage(3))
	view = e.View()
	require.Len(t, view.Rows, 5)
	assert.Equal(t, domain.SummaryStats{Mean: 23, Min: 21, Max: 25}, *view.Summary)

	e.ToggleOrder()
	view = e.View()
	assert.Equal(t, Descending, view.Order)
	assert.Equal(t, domain.SummaryStats{Mean: 3, Min: 1, Max: 5}, *view.Summary)

	// a new search goes back to the first page
	require.NoError(t, e.Search(context.Background()))
	assert.Equal(t, 1, e.View().Page)
}

func TestView_EmptyResultHasNoSummary(t *testing.T) {
	src := new(mockSource)
	src.On("ListObservations", mock.Anything, expectedQuery()).Return([]client.Observation{}, nil)
	e := newSelectedExplorer(src)

	require.NoError(t, e.Search(context.Background()))

	view := e.View()
	assert.Empty(t, view.Rows)
	assert.Nil(t, view.Summary)
	assert.Equal(t, 1, view.PageCount)
}

func TestSetPage_Clamps(t *testing.T) {
	src := new(mockSource)
	src.On("ListObservations", mock.Anything, expectedQuery()).Return(observations(15), nil)
	e := newSelectedExplorer(src)
	require.NoError(t, e.Search(context.Background()))

	assert.Equal(t, 2, e.SetPage(99))
	assert.Equal(t, 1, e.SetPage(-4))
}

func TestSummarize(t *testing.T) {
	rows := adapters.MapObservationsToDisplayRows([]client.Observation{
		{Date: "2020-01-01", Value: 10},
		{Date: "2021-01-01", Value: 20},
		{Date: "2022-01-01", Value: 30},
	})

	stats := Summarize(rows)

	require.NotNil(t, stats)
	assert.Equal(t, "20.00", adapters.FormatValue(stats.Mean))
	assert.Equal(t, "10.00", adapters.FormatValue(stats.Min))
	assert.Equal(t, "30.00", adapters.FormatValue(stats.Max))
	assert.Nil(t, Summarize(nil))
}

func TestResult_TracksSearchedSelection(t *testing.T) {
	src := new(mockSource)
	src.On("ListObservations", mock.Anything, expectedQuery()).Return(observations(2), nil)
	e := newSelectedExplorer(src)

	_, _, ok := e.Result()
	assert.False(t, ok)

	require.NoError(t, e.Search(context.Background()))
	e.SelectCountry("DEU")

	sel, rows, ok := e.Result()
	require.True(t, ok)
	assert.Equal(t, "USA", sel.CountryCode)
	assert.Len(t, rows, 2)
	assert.Equal(t, "DEU", e.Selection().CountryCode)
}
