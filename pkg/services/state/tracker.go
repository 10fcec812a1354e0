package state

import (
	"context"
	"sync"
)

// Ticket identifies one issued request.
type Ticket uint64

// Tracker serialises lifecycle transitions for one orchestrator and hands out
// monotonically increasing tickets so that only the latest response lands.
type Tracker[T any] struct {
	mu     sync.Mutex
	policy Policy
	seq    uint64
	state  State[T]
	cancel context.CancelFunc
}

func NewTracker[T any](policy Policy) *Tracker[T] {
	return &Tracker[T]{policy: policy}
}

// Begin starts a request, cancelling any request still in flight. The
// returned context must be used for the request; it is cancelled by Cancel or
// by a later Begin.
func (t *Tracker[T]) Begin(ctx context.Context) (context.Context, Ticket) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.seq++
	t.state = Start(t.state, t.seq, t.policy)
	return reqCtx, Ticket(t.seq)
}

// Resolve applies data for ticket. It reports false for a stale ticket.
func (t *Tracker[T]) Resolve(ticket Ticket, data T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, ok := Succeed(t.state, uint64(ticket), data)
	if ok {
		t.state = next
		t.release()
	}
	return ok
}

// Reject records a user-facing message for ticket. It reports false for a
// stale ticket.
func (t *Tracker[T]) Reject(ticket Ticket, message string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, ok := Fail(t.state, uint64(ticket), message)
	if ok {
		t.state = next
		t.release()
	}
	return ok
}

// Cancel aborts the in-flight request, if any. Its response will be dropped.
func (t *Tracker[T]) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.seq++
	t.state = Abort(t.state, t.seq)
}

func (t *Tracker[T]) Snapshot() State[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Tracker[T]) release() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
