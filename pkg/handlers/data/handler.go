package data

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/de-tools/macro-atlas/pkg/adapters"
	"github.com/de-tools/macro-atlas/pkg/handlers"
	"github.com/de-tools/macro-atlas/pkg/models/api"
	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/de-tools/macro-atlas/pkg/services/explorer"
	"github.com/de-tools/macro-atlas/pkg/services/metadata"
	"github.com/de-tools/macro-atlas/pkg/store/sqlite/snapshot"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type CatalogLoader interface {
	Load(ctx context.Context)
	Catalog() metadata.Catalog
}

type Explorer interface {
	SelectCountry(code string)
	SelectIndicator(name string)
	SelectDateRange(start, end time.Time)
	ClearDateRange()
	Selection() domain.Selection
	Search(ctx context.Context) error
	SetOrder(o explorer.Order)
	SetPage(page int) int
	Result() (domain.Selection, []domain.DisplayRow, bool)
	View() explorer.View
}

type Handler struct {
	catalog   CatalogLoader
	explorer  Explorer
	snapshots snapshot.Store
}

func NewHandler(catalog CatalogLoader, exp Explorer, snapshots snapshot.Store) *Handler {
	return &Handler{
		catalog:   catalog,
		explorer:  exp,
		snapshots: snapshots,
	}
}

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, r, http.StatusOK, h.catalogResponse())
}

func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	h.catalog.Load(r.Context())
	handlers.WriteJSON(w, r, http.StatusOK, h.catalogResponse())
}

func (h *Handler) catalogResponse() api.Catalog {
	c := h.catalog.Catalog()
	return api.Catalog{
		Countries:        adapters.MapCountriesToAPI(c.Countries),
		Indicators:       adapters.MapIndicatorsToAPI(c.Indicators),
		Loading:          c.Loading,
		CountriesFailed:  c.CountriesFailed,
		IndicatorsFailed: c.IndicatorsFailed,
	}
}

func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapSelectionToAPI(h.explorer.Selection()))
}

// PutSelection replaces the whole selection. Omitting both dates clears the range.
func (h *Handler) PutSelection(w http.ResponseWriter, r *http.Request) {
	var body api.Selection
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, "invalid selection body")
		return
	}

	var start, end time.Time
	hasRange := body.StartDate != "" || body.EndDate != ""
	if hasRange {
		var err error
		if start, err = time.Parse(domain.DateLayout, body.StartDate); err != nil {
			handlers.WriteError(w, r, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
		if end, err = time.Parse(domain.DateLayout, body.EndDate); err != nil {
			handlers.WriteError(w, r, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
			return
		}
	}

	h.explorer.SelectCountry(body.CountryCode)
	h.explorer.SelectIndicator(body.Indicator)
	if hasRange {
		h.explorer.SelectDateRange(start, end)
	} else {
		h.explorer.ClearDateRange()
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapSelectionToAPI(h.explorer.Selection()))
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	err := h.explorer.Search(r.Context())
	switch {
	case err == nil:
		handlers.WriteJSON(w, r, http.StatusOK, h.pageResponse())
	case errors.Is(err, explorer.ErrInvalidDateRange):
		handlers.WriteError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, explorer.ErrSuperseded):
		handlers.WriteError(w, r, http.StatusConflict, err.Error())
	default:
		handlers.WriteError(w, r, http.StatusBadGateway, err.Error())
	}
}

// GetPage renders the current page. Optional page and order query
// parameters move the view before rendering.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if order := q.Get("order"); order != "" {
		if order != explorer.Ascending.String() && order != explorer.Descending.String() {
			handlers.WriteError(w, r, http.StatusBadRequest, "order must be asc or desc")
			return
		}
		h.explorer.SetOrder(explorer.ParseOrder(order))
	}
	if page := q.Get("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil {
			handlers.WriteError(w, r, http.StatusBadRequest, "page must be a number")
			return
		}
		h.explorer.SetPage(n)
	}
	handlers.WriteJSON(w, r, http.StatusOK, h.pageResponse())
}

func (h *Handler) pageResponse() api.ExplorerPage {
	v := h.explorer.View()
	return api.ExplorerPage{
		Status:    v.Status.String(),
		Loading:   v.Loading,
		Message:   v.Message,
		Selection: adapters.MapSelectionToAPI(v.Selection),
		Order:     v.Order.String(),
		Page:      v.Page,
		PageCount: v.PageCount,
		Total:     v.Total,
		Rows:      adapters.MapRowsToAPI(v.Rows),
		Summary:   adapters.MapSummaryToAPI(v.Summary),
	}
}

func (h *Handler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	sel, rows, ok := h.explorer.Result()
	if !ok || sel.Range == nil {
		handlers.WriteError(w, r, http.StatusBadRequest, "no search result to save")
		return
	}

	record := adapters.MapSnapshotToRecord(domain.Snapshot{
		CountryCode: sel.CountryCode,
		Indicator:   sel.Indicator,
		Range:       *sel.Range,
		Rows:        rows,
	})
	id, err := h.snapshots.Save(ctx, record)
	if err != nil {
		logger.Error().
			Err(err).
			Str("country_code", sel.CountryCode).
			Str("indicator", sel.Indicator).
			Msg("failed to save snapshot")
		handlers.WriteError(w, r, http.StatusInternalServerError, "failed to save snapshot")
		return
	}
	handlers.WriteJSON(w, r, http.StatusCreated, api.SnapshotCreated{ID: id})
}

func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			handlers.WriteError(w, r, http.StatusBadRequest, "limit must be a non-negative number")
			return
		}
		limit = n
	}

	records, err := h.snapshots.List(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list snapshots")
		handlers.WriteError(w, r, http.StatusInternalServerError, "failed to list snapshots")
		return
	}

	response := make([]api.Snapshot, 0, len(records))
	for _, rec := range records {
		response = append(response, adapters.MapSnapshotToAPI(adapters.MapRecordToSnapshot(rec), rec.RowCount))
	}
	handlers.WriteJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	id, ok := snapshotID(w, r)
	if !ok {
		return
	}
	rec, err := h.snapshots.Get(ctx, id)
	if errors.Is(err, snapshot.ErrNotFound) {
		handlers.WriteError(w, r, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("failed to get snapshot")
		handlers.WriteError(w, r, http.StatusInternalServerError, "failed to get snapshot")
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapSnapshotToAPI(adapters.MapRecordToSnapshot(*rec), rec.RowCount))
}

func (h *Handler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	id, ok := snapshotID(w, r)
	if !ok {
		return
	}
	err := h.snapshots.Delete(ctx, id)
	if errors.Is(err, snapshot.ErrNotFound) {
		handlers.WriteError(w, r, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("failed to delete snapshot")
		handlers.WriteError(w, r, http.StatusInternalServerError, "failed to delete snapshot")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func snapshotID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, "invalid snapshot id")
		return 0, false
	}
	return id, true
}
