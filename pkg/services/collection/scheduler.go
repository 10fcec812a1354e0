package collection

import (
	"context"
	"fmt"
	"sync"

	"github.com/de-tools/macro-atlas/pkg/store/client"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler triggers a full collection run on a cron spec.
type Scheduler struct {
	trigger *Trigger
	cron    *cron.Cron

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewScheduler(trigger *Trigger) *Scheduler {
	return &Scheduler{
		trigger: trigger,
		cron:    cron.New(),
	}
}

// Start registers spec and starts the cron loop. Runs use ctx for logging and
// stop when Stop is called.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return fmt.Errorf("scheduler already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	_, err := s.cron.AddFunc(spec, func() {
		if _, err := s.trigger.Run(runCtx, client.SourceAll); err != nil {
			zerolog.Ctx(runCtx).Warn().Err(err).Msg("scheduled collection failed")
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("invalid collect schedule %q: %w", spec, err)
	}

	s.cancel = cancel
	s.cron.Start()
	zerolog.Ctx(ctx).Info().Str("schedule", spec).Msg("collection scheduler started")
	return nil
}

// Stop halts scheduling and waits for a running job to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.cron.Stop().Done()
	s.cancel = nil
}
