package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/de-tools/macro-atlas/pkg/adapters"
	"github.com/de-tools/macro-atlas/pkg/handlers"
	"github.com/de-tools/macro-atlas/pkg/models/api"
	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/de-tools/macro-atlas/pkg/services/collection"
	"github.com/de-tools/macro-atlas/pkg/services/query"
	"github.com/de-tools/macro-atlas/pkg/services/state"
	"github.com/de-tools/macro-atlas/pkg/store/client"
	"github.com/go-chi/chi/v5"
)

type QueryRunner interface {
	Submit(ctx context.Context, text string) error
	View() query.View
}

type CollectionRunner interface {
	Run(ctx context.Context, source client.CollectionSource) (domain.CollectionRun, error)
	Last() state.State[domain.CollectionRun]
}

type Handler struct {
	queries    QueryRunner
	collection CollectionRunner
}

func NewHandler(queries QueryRunner, collection CollectionRunner) *Handler {
	return &Handler{
		queries:    queries,
		collection: collection,
	}
}

func (h *Handler) SubmitQuery(w http.ResponseWriter, r *http.Request) {
	var body api.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, "invalid query body")
		return
	}

	err := h.queries.Submit(r.Context(), body.Query)
	switch {
	case err == nil:
		handlers.WriteJSON(w, r, http.StatusOK, h.queryResponse())
	case errors.Is(err, query.ErrSuperseded):
		handlers.WriteError(w, r, http.StatusConflict, err.Error())
	default:
		handlers.WriteError(w, r, http.StatusBadGateway, err.Error())
	}
}

func (h *Handler) GetQuery(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, r, http.StatusOK, h.queryResponse())
}

func (h *Handler) queryResponse() api.QueryPage {
	v := h.queries.View()
	page := api.QueryPage{
		Status:  v.Status.String(),
		Loading: v.Loading,
		Message: v.Message,
		Query:   v.Query,
	}
	if v.Views != nil {
		views := adapters.MapQueryViewsToAPI(*v.Views)
		page.Views = &views
	}
	return page
}

func (h *Handler) TriggerCollection(w http.ResponseWriter, r *http.Request) {
	source, err := collection.ParseSource(chi.URLParam(r, "source"))
	if err != nil {
		handlers.WriteError(w, r, http.StatusNotFound, err.Error())
		return
	}

	run, err := h.collection.Run(r.Context(), source)
	switch {
	case err == nil:
		handlers.WriteJSON(w, r, http.StatusAccepted, adapters.MapCollectionRunToAPI(run))
	case errors.Is(err, collection.ErrSuperseded):
		handlers.WriteError(w, r, http.StatusConflict, err.Error())
	default:
		handlers.WriteError(w, r, http.StatusBadGateway, err.Error())
	}
}

func (h *Handler) GetCollection(w http.ResponseWriter, r *http.Request) {
	last := h.collection.Last()
	status := api.CollectionStatus{
		Status:  last.Status.String(),
		Loading: last.Loading(),
		Message: last.Message,
	}
	if last.HasData {
		run := adapters.MapCollectionRunToAPI(last.Data)
		status.Last = &run
	}
	handlers.WriteJSON(w, r, http.StatusOK, status)
}
