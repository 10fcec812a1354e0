package metadata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/de-tools/macro-atlas/pkg/store/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListCountries(ctx context.Context) ([]client.Country, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Country), args.Error(1)
}

func (m *mockSource) ListIndicators(ctx context.Context) ([]client.Indicator, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Indicator), args.Error(1)
}

func TestLoader_CatalogBeforeLoadIsLoading(t *testing.T) {
	l := NewLoader(new(mockSource))

	catalog := l.Catalog()
	assert.True(t, catalog.Loading)
	assert.Empty(t, catalog.Countries)
	assert.Empty(t, catalog.Indicators)
	assert.False(t, catalog.CountriesFailed)
	assert.False(t, catalog.IndicatorsFailed)
}

func TestLoader_Load_Success(t *testing.T) {
	src := new(mockSource)
	src.On("ListCountries", mock.Anything).Return([]client.Country{{Code: "USA", Name: "United States"}}, nil)
	src.On("ListIndicators", mock.Anything).Return([]client.Indicator{{Name: "GDP", Unit: "USD"}}, nil)

	l := NewLoader(src)
	l.Load(context.Background())

	catalog := l.Catalog()
	assert.False(t, catalog.Loading)
	assert.Equal(t, []domain.Country{{Code: "USA", Name: "United States"}}, catalog.Countries)
	assert.Equal(t, []domain.Indicator{{Name: "GDP", Unit: "USD"}}, catalog.Indicators)
	assert.False(t, catalog.CountriesFailed)
	assert.False(t, catalog.IndicatorsFailed)
	src.AssertExpectations(t)
}

func TestLoader_Load_IndicatorFailureLeavesCountries(t *testing.T) {
	src := new(mockSource)
	src.On("ListCountries", mock.Anything).Return([]client.Country{{Code: "CHN", Name: "China"}, {Code: "USA", Name: "United States"}}, nil)
	src.On("ListIndicators", mock.Anything).Return(nil, errors.New("502 bad gateway"))

	l := NewLoader(src)
	l.Load(context.Background())

	catalog := l.Catalog()
	assert.False(t, catalog.Loading)
	assert.Len(t, catalog.Countries, 2)
	assert.NotNil(t, catalog.Indicators)
	assert.Empty(t, catalog.Indicators)
	assert.True(t, catalog.IndicatorsFailed)
	assert.False(t, catalog.CountriesFailed)
}

// blockingSource releases each list only when told to, so the test controls
// completion order.
type blockingSource struct {
	countriesStarted  chan struct{}
	indicatorsStarted chan struct{}
	releaseCountries  chan struct{}
	releaseIndicators chan struct{}
}

func (b *blockingSource) ListCountries(ctx context.Context) ([]client.Country, error) {
	close(b.countriesStarted)
	<-b.releaseCountries
	return []client.Country{{Code: "USA"}}, nil
}

func (b *blockingSource) ListIndicators(ctx context.Context) ([]client.Indicator, error) {
	close(b.indicatorsStarted)
	<-b.releaseIndicators
	return []client.Indicator{{Name: "GDP"}}, nil
}

func TestLoader_Load_FanOutFanIn(t *testing.T) {
	src := &blockingSource{
		countriesStarted:  make(chan struct{}),
		indicatorsStarted: make(chan struct{}),
		releaseCountries:  make(chan struct{}),
		releaseIndicators: make(chan struct{}),
	}
	l := NewLoader(src)

	done := make(chan struct{})
	go func() {
		l.Load(context.Background())
		close(done)
	}()

	// Both requests are in flight before either completes.
	<-src.countriesStarted
	<-src.indicatorsStarted
	assert.True(t, l.Catalog().Loading)

	// Countries finishing first does not end the loading state.
	close(src.releaseCountries)
	select {
	case <-done:
		t.Fatal("loader finished before indicators completed")
	case <-time.After(20 * time.Millisecond):
	}
	catalog := l.Catalog()
	assert.True(t, catalog.Loading)
	assert.Empty(t, catalog.Countries)

	close(src.releaseIndicators)
	<-done

	catalog = l.Catalog()
	require.False(t, catalog.Loading)
	assert.Len(t, catalog.Countries, 1)
	assert.Len(t, catalog.Indicators, 1)
}

func TestLoader_Indicator(t *testing.T) {
	src := new(mockSource)
	src.On("ListCountries", mock.Anything).Return([]client.Country{}, nil)
	src.On("ListIndicators", mock.Anything).Return([]client.Indicator{{Name: "GDP", Unit: "USD"}}, nil)
	l := NewLoader(src)
	l.Load(context.Background())

	ind, ok := l.Indicator("GDP")
	assert.True(t, ok)
	assert.Equal(t, "USD", ind.Unit)

	_, ok = l.Indicator("CPI")
	assert.False(t, ok)
}
