package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/macro-atlas/pkg/models/domain"
	"github.com/de-tools/macro-atlas/pkg/services/state"
	"github.com/de-tools/macro-atlas/pkg/store/client"
	"github.com/rs/zerolog"
)

const failedMessage = "Failed to start data collection, please try again later."

var (
	ErrUnknownSource = errors.New("unknown collection source")
	ErrRequestFailed = errors.New(failedMessage)
	ErrSuperseded    = errors.New("collection trigger superseded")
)

var Sources = []client.CollectionSource{client.SourceWorldBank, client.SourceAll}

type Triggerer interface {
	TriggerCollection(ctx context.Context, source client.CollectionSource) (*client.CollectionResponse, error)
}

// Trigger asks the remote service to start a background collection run.
type Trigger struct {
	api  Triggerer
	now  func() time.Time
	last *state.Tracker[domain.CollectionRun]
}

func NewTrigger(api Triggerer) *Trigger {
	return &Trigger{
		api:  api,
		now:  time.Now,
		last: state.NewTracker[domain.CollectionRun](state.RetainOnFailure),
	}
}

func ParseSource(s string) (client.CollectionSource, error) {
	for _, src := range Sources {
		if string(src) == s {
			return src, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

func (t *Trigger) Run(ctx context.Context, source client.CollectionSource) (domain.CollectionRun, error) {
	logger := zerolog.Ctx(ctx)

	reqCtx, ticket := t.last.Begin(ctx)
	started := t.now()
	resp, err := t.api.TriggerCollection(reqCtx, source)
	if err != nil {
		if !t.last.Reject(ticket, failedMessage) {
			return domain.CollectionRun{}, ErrSuperseded
		}
		logger.Error().Err(err).Str("source", string(source)).Msg("failed to trigger collection")
		return domain.CollectionRun{}, ErrRequestFailed
	}

	run := domain.CollectionRun{Source: string(source), Message: resp.Message, StartedAt: started}
	if !t.last.Resolve(ticket, run) {
		return domain.CollectionRun{}, ErrSuperseded
	}
	logger.Info().Str("source", string(source)).Msg(resp.Message)
	return run, nil
}

func (t *Trigger) Last() state.State[domain.CollectionRun] {
	return t.last.Snapshot()
}
