package store

import (
	"context"
	"errors"
	"sync"
)

// ErrStale is returned by Refresh when a newer refresh was issued while the
// fetch was in flight. The result was discarded.
var ErrStale = errors.New("stale result discarded")

// State is the state of a slot.
type State int

// Slot states.
const (
	// Idle means nothing was fetched yet.
	Idle State = iota
	// Loading means a fetch is in flight. The previous value is still
	// visible.
	Loading
	// Ready means the last fetch succeeded. A nil value means the entity is
	// legitimately absent.
	Ready
	// Failed means the last fetch errored.
	Failed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Snapshot is a consistent view of a slot.
type Snapshot[T any] struct {
	State State
	Value *T
	Err   error

	// Seq is the sequence number of the refresh that produced Value.
	Seq uint64
}

// Settled reports whether the snapshot holds the outcome of a fetch.
func (s Snapshot[T]) Settled() bool {
	return s.State == Ready || s.State == Failed
}

// Absent reports whether the last fetch succeeded and found nothing.
func (s Snapshot[T]) Absent() bool {
	return s.State == Ready && s.Value == nil
}

// Fetcher loads the value of a slot.
type Fetcher[T any] func(context.Context) (*T, error)

// Slot holds the latest settled value of an entity. The newest refresh
// always wins: results of older refreshes are never committed.
type Slot[T any] struct {
	mu     sync.Mutex
	snap   Snapshot[T]
	issued uint64
	notify func(Snapshot[T])
}

// Get returns the current snapshot.
func (s *Slot[T]) Get() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Refresh runs fetch and commits its result unless a newer refresh was
// issued in the meantime, in which case it returns ErrStale along with the
// current snapshot.
func (s *Slot[T]) Refresh(ctx context.Context, fetch Fetcher[T]) (Snapshot[T], error) {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.snap.State = Loading
	s.emit(s.snap)
	s.mu.Unlock()

	v, err := fetch(ctx)

	s.mu.Lock()
	if seq != s.issued {
		snap := s.snap
		s.mu.Unlock()
		return snap, ErrStale
	}
	if err != nil {
		s.snap.State = Failed
		s.snap.Err = err
	} else {
		s.snap = Snapshot[T]{State: Ready, Value: v, Seq: seq}
	}
	snap := s.snap
	s.emit(snap)
	s.mu.Unlock()

	return snap, err
}

// Reset forgets the value and invalidates any refresh in flight.
func (s *Slot[T]) Reset() {
	s.mu.Lock()
	s.issued++
	s.snap = Snapshot[T]{}
	s.emit(s.snap)
	s.mu.Unlock()
}

// emit must be called with mu held so events keep commit order.
func (s *Slot[T]) emit(snap Snapshot[T]) {
	if s.notify != nil {
		s.notify(snap)
	}
}
