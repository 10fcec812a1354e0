package query

import (
	"context"
	"errors"
	"strings"

	"github.com/de-tools/macro-atlas/pkg/adapters"
	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/de-tools/macro-atlas/pkg/services/state"
	"github.com/de-tools/macro-atlas/pkg/store/client"
	"github.com/rs/zerolog"
)

const failedMessage = "Query failed, please try again later."

var (
	ErrSuperseded    = errors.New("response superseded by a newer query")
	ErrRequestFailed = errors.New(failedMessage)
)

type Analyzer interface {
	SubmitQuery(ctx context.Context, query string) (*client.QueryResponse, error)
}

// Orchestrator runs natural language queries. Starting a submission discards
// the previous result, so a failure never shows an older report.
type Orchestrator struct {
	analyzer Analyzer
	result   *state.Tracker[domain.QueryResult]
}

func New(analyzer Analyzer) *Orchestrator {
	return &Orchestrator{
		analyzer: analyzer,
		result:   state.NewTracker[domain.QueryResult](state.ClearOnStart),
	}
}

// Submit sends text to the analysis endpoint. Blank text is a no-op.
func (o *Orchestrator) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	logger := zerolog.Ctx(ctx)

	reqCtx, ticket := o.result.Begin(ctx)
	resp, err := o.analyzer.SubmitQuery(reqCtx, text)
	if err != nil {
		if !o.result.Reject(ticket, failedMessage) {
			logger.Debug().Err(err).Str("query", text).Msg("dropping failure of superseded query")
			return ErrSuperseded
		}
		logger.Error().Err(err).Str("query", text).Msg("failed to submit query")
		return ErrRequestFailed
	}

	if !o.result.Resolve(ticket, adapters.MapQueryResponseToDomain(text, resp)) {
		logger.Debug().Str("query", text).Msg("dropping response of superseded query")
		return ErrSuperseded
	}
	if resp.Analysis.Error != "" {
		logger.Warn().Str("query", text).Str("analysis_error", resp.Analysis.Error).Msg("analysis returned no data")
	}
	return nil
}

func (o *Orchestrator) Cancel() {
	o.result.Cancel()
}

// View is what the query page renders. Views is nil unless the latest
// submission succeeded.
type View struct {
	Status  state.Status
	Loading bool
	Message string
	Query   string
	Views   *domain.QueryViews
}

func (o *Orchestrator) View() View {
	snap := o.result.Snapshot()
	v := View{
		Status:  snap.Status,
		Loading: snap.Loading(),
		Message: snap.Message,
	}
	if snap.HasData {
		views := adapters.MapQueryResultToViews(snap.Data)
		v.Query = snap.Data.Query
		v.Views = &views
	}
	return v
}

// Result returns the raw result of the latest successful submission.
func (o *Orchestrator) Result() (domain.QueryResult, bool) {
	snap := o.result.Snapshot()
	return snap.Data, snap.HasData
}
