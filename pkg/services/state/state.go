package state

import "fmt"

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Policy decides what happens to the last successful payload while a new
// request is in flight and after it fails.
type Policy int

const (
	// RetainOnFailure keeps the previous payload visible while loading and
	// after a failure (stale-on-error).
	RetainOnFailure Policy = iota
	// ClearOnStart drops the previous payload as soon as a request begins.
	ClearOnStart
)

// State is one orchestrator's lifecycle. HasData reports whether Data holds a
// payload from some successful request.
type State[T any] struct {
	Status  Status
	Data    T
	HasData bool
	Message string
	Seq     uint64
	// restored by Abort
	prev    Status
	prevMsg string
}

func (s State[T]) Loading() bool {
	return s.Status == StatusLoading
}

// Start moves s into Loading for request seq. Superseding a request that is
// still loading keeps the status saved before the first one.
func Start[T any](s State[T], seq uint64, policy Policy) State[T] {
	next := s
	if s.Status != StatusLoading {
		next.prev = s.Status
		next.prevMsg = s.Message
	}
	next.Status = StatusLoading
	next.Message = ""
	next.Seq = seq
	if policy == ClearOnStart {
		var zero T
		next.Data = zero
		next.HasData = false
		next.prev = StatusIdle
		next.prevMsg = ""
	}
	return next
}

// Succeed stores data when seq is still the latest request. The second return
// is false when the response is stale and s is returned unchanged.
func Succeed[T any](s State[T], seq uint64, data T) (State[T], bool) {
	if seq != s.Seq || s.Status != StatusLoading {
		return s, false
	}
	return State[T]{
		Status:  StatusSuccess,
		Data:    data,
		HasData: true,
		Seq:     seq,
	}, true
}

// Fail records message for the latest request, keeping whatever payload the
// policy left in place.
func Fail[T any](s State[T], seq uint64, message string) (State[T], bool) {
	if seq != s.Seq || s.Status != StatusLoading {
		return s, false
	}
	next := s
	next.Status = StatusFailed
	next.Message = message
	return next, true
}

// Abort abandons the in-flight request and invalidates it by advancing Seq.
func Abort[T any](s State[T], seq uint64) State[T] {
	next := s
	next.Seq = seq
	if s.Status == StatusLoading {
		next.Status = s.prev
		next.Message = s.prevMsg
		if !next.HasData && next.Status == StatusSuccess {
			next.Status = StatusIdle
		}
	}
	return next
}
