// Package cancel implements the run-wide cancellation latch of spec.md §3:
// a broadcastable boolean that starts false and transitions to true at most
// once, never resetting. Idiomatic Go already has exactly this primitive —
// a context.Context paired with its CancelFunc — so Signal is a thin,
// single-writer wrapper around it rather than a hand-rolled atomic flag.
package cancel

import (
	"context"
	"sync"
)

// Signal is the latched broadcast cancellation used by every long-running
// component (controller, workers, collector).
type Signal struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// New returns a fresh, unset Signal.
func New() *Signal {
	ctx, cancel := context.WithCancel(context.Background())
	return &Signal{ctx: ctx, cancel: cancel}
}

// Context returns the context long-running components should select on via
// Done(). It never changes identity across the Signal's lifetime.
func (s *Signal) Context() context.Context {
	return s.ctx
}

// Done returns the channel that closes exactly once, the instant the
// signal is set.
func (s *Signal) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Set latches the signal. Calling it more than once, from any number of
// goroutines, has no additional effect — exactly one transition ever
// happens (spec.md §8 invariant 5).
func (s *Signal) Set() {
	s.once.Do(s.cancel)
}

// IsSet reports whether the signal has been latched.
func (s *Signal) IsSet() bool {
	select {
	case <-s.ctx.Done():
		return true
	default:
		return false
	}
}
