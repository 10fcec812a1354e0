package explorer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/de-tools/macro-atlas/pkg/adapters"
	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/de-tools/macro-atlas/pkg/services/state"
	"github.com/de-tools/macro-atlas/pkg/store/client"
	"github.com/rs/zerolog"
)

const (
	PageSize = 10

	defaultRangeYears = 10
	failedMessage     = "Failed to load data, please try again later."
)

var (
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrSuperseded       = errors.New("response superseded by a newer search")
	ErrRequestFailed    = errors.New(failedMessage)
)

type Source interface {
	ListObservations(ctx context.Context, q client.ObservationQuery) ([]client.Observation, error)
}

type Option func(*Explorer)

// WithClock overrides time.Now for the default date range.
func WithClock(now func() time.Time) Option {
	return func(e *Explorer) { e.now = now }
}

// Explorer owns the browse-by-selection lifecycle. Rows survive a failed
// search; only the latest issued search may replace them.
type Explorer struct {
	source Source
	now    func() time.Time
	rows   *state.Tracker[[]domain.DisplayRow]

	mu        sync.Mutex
	selection domain.Selection
	searched  domain.Selection
	order     Order
	page      int
}

func New(source Source, opts ...Option) *Explorer {
	e := &Explorer{
		source: source,
		now:    time.Now,
		rows:   state.NewTracker[[]domain.DisplayRow](state.RetainOnFailure),
		order:  Ascending,
		page:   1,
	}
	for _, opt := range opts {
		opt(e)
	}
	end := e.now()
	e.selection.Range = &domain.DateRange{Start: end.AddDate(-defaultRangeYears, 0, 0), End: end}
	return e
}

func (e *Explorer) SelectCountry(code string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.CountryCode = code
}

func (e *Explorer) SelectIndicator(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Indicator = name
}

func (e *Explorer) SelectDateRange(start, end time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Range = &domain.DateRange{Start: start, End: end}
}

// ClearDateRange unsets the range; Search is a no-op until a new one is set.
func (e *Explorer) ClearDateRange() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Range = nil
}

func (e *Explorer) Selection() domain.Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copySelection(e.selection)
}

// Search fetches observations for the current selection. An incomplete
// selection issues no request and returns nil. Network failures are logged
// and reported as ErrRequestFailed with the previous rows left in place.
func (e *Explorer) Search(ctx context.Context) error {
	sel := e.Selection()
	if !sel.Complete() {
		return nil
	}
	if !sel.Range.Valid() {
		return ErrInvalidDateRange
	}

	logger := zerolog.Ctx(ctx).With().
		Str("country_code", sel.CountryCode).
		Str("indicator", sel.Indicator).
		Logger()

	reqCtx, ticket := e.rows.Begin(ctx)
	observations, err := e.source.ListObservations(reqCtx, client.ObservationQuery{
		CountryCode:   sel.CountryCode,
		IndicatorCode: sel.Indicator,
		Start:         sel.Range.Start,
		End:           sel.Range.End,
	})
	if err != nil {
		if !e.rows.Reject(ticket, failedMessage) {
			logger.Debug().Err(err).Msg("dropping failure of superseded search")
			return ErrSuperseded
		}
		logger.Error().Err(err).Msg("failed to fetch observations")
		return ErrRequestFailed
	}

	rows := adapters.MapObservationsToDisplayRows(observations)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.rows.Resolve(ticket, rows) {
		logger.Debug().Msg("dropping response of superseded search")
		return ErrSuperseded
	}
	e.searched = sel
	e.page = 1
	return nil
}

// Cancel abandons the in-flight search, if any.
func (e *Explorer) Cancel() {
	e.rows.Cancel()
}

func (e *Explorer) SetOrder(o Order) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.order = o
}

func (e *Explorer) ToggleOrder() Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.order = e.order.Toggle()
	return e.order
}

// SetPage moves to page (1-based), clamped to the available pages.
func (e *Explorer) SetPage(page int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := e.rows.Snapshot()
	e.page = clampPage(page, pageCount(len(snap.Data)))
	return e.page
}

// Rows returns every loaded row in the current order.
func (e *Explorer) Rows() []domain.DisplayRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return SortRows(e.rows.Snapshot().Data, e.order)
}

// Result returns the selection the loaded rows were fetched for and every
// row in the current order. ok is false until a search has succeeded.
func (e *Explorer) Result() (sel domain.Selection, rows []domain.DisplayRow, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := e.rows.Snapshot()
	if !snap.HasData {
		return domain.Selection{}, nil, false
	}
	return copySelection(e.searched), SortRows(snap.Data, e.order), true
}

// View is the render-ready state of the explorer.
type View struct {
	Status    state.Status
	Loading   bool
	Message   string
	Selection domain.Selection
	Order     Order
	Page      int
	PageCount int
	Total     int
	Rows      []domain.DisplayRow
	// Summary covers Rows only and is nil when Rows is empty.
	Summary *domain.SummaryStats
}

func (e *Explorer) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.rows.Snapshot()
	sorted := SortRows(snap.Data, e.order)
	pages := pageCount(len(sorted))
	page := clampPage(e.page, pages)
	visible := Paginate(sorted, page, PageSize)

	return View{
		Status:    snap.Status,
		Loading:   snap.Loading(),
		Message:   snap.Message,
		Selection: copySelection(e.selection),
		Order:     e.order,
		Page:      page,
		PageCount: pages,
		Total:     len(sorted),
		Rows:      visible,
		Summary:   Summarize(visible),
	}
}

func copySelection(sel domain.Selection) domain.Selection {
	if sel.Range != nil {
		r := *sel.Range
		sel.Range = &r
	}
	return sel
}
