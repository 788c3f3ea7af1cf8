package cancellation

import (
	"runtime"
	"sync"
)

// observerState is the data shared by every clone of a TerminationObserver
// for a single task. Delivery is a broadcast: the status is stored once and
// the closed channel is closed exactly once, so any number of independent
// observers (and any number of concurrent Poll callers) can all observe the
// same outcome without racing each other for a single buffered value —
// mirroring eventloop/promise.go's own fan-out-by-closing-channels approach
// rather than a single-consumer buffered channel.
type observerState struct {
	mu      sync.Mutex
	ready   bool
	status  TerminationStatus
	closed  chan struct{}
	waiters []Waker
}

func newObserverState() *observerState {
	return &observerState{closed: make(chan struct{})}
}

func (s *observerState) deliver(status TerminationStatus) {
	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return
	}
	s.ready = true
	s.status = status
	waiters := s.waiters
	s.waiters = nil
	close(s.closed)
	s.mu.Unlock()

	for _, w := range waiters {
		w.Wake()
	}
}

// terminationSender is the write side of an observerState. It is held only
// by sharedState (its reply field, set at construction), which the Task and
// its CancellationHandle both reference, and is never handed to user code
// directly.
//
// Go has no destructors, so "the sender was dropped without sending" (the
// Rust original's oneshot-channel-disconnect signal, reported to observers
// as ExecutorShutdown) is approximated with runtime.SetFinalizer: if this
// object becomes unreachable while still unsent, the finalizer delivers
// ExecutorShutdown. This is inherently best-effort and GC-timing dependent —
// tests that rely on it must force a collection explicitly (runtime.GC())
// rather than waiting on a timer.
type terminationSender struct {
	state *observerState

	mu   sync.Mutex
	sent bool
}

func newTerminationSender(state *observerState) *terminationSender {
	s := &terminationSender{state: state}
	runtime.SetFinalizer(s, func(s *terminationSender) {
		s.deliver(StatusExecutorShutdown)
	})
	return s
}

// send delivers status and disarms the finalizer, since the sender is now
// known to have been used correctly and explicitly.
func (s *terminationSender) send(status TerminationStatus) {
	s.mu.Lock()
	if s.sent {
		s.mu.Unlock()
		return
	}
	s.sent = true
	s.mu.Unlock()

	runtime.SetFinalizer(s, nil)
	s.state.deliver(status)
}

// deliver is used by the finalizer path; it guards against racing an
// in-flight explicit send with the same "first write wins" semantics.
func (s *terminationSender) deliver(status TerminationStatus) {
	s.mu.Lock()
	if s.sent {
		s.mu.Unlock()
		return
	}
	s.sent = true
	s.mu.Unlock()
	s.state.deliver(status)
}

// TerminationObserver reports how a Task ultimately terminated: Finished,
// Cancelled, or ExecutorShutdown (the task and its handle were both dropped
// without the task ever reaching a terminal state). It is itself a
// Future[TerminationStatus] and is safe to clone and poll from multiple
// goroutines concurrently; every clone observes the same, single outcome.
type TerminationObserver struct {
	state *observerState
}

// Poll implements Future[TerminationStatus].
func (o TerminationObserver) Poll(cx *PollContext) Poll[TerminationStatus] {
	s := o.state
	s.mu.Lock()
	if s.ready {
		st := s.status
		s.mu.Unlock()
		return Ready(st)
	}
	if cx != nil && cx.Waker != nil {
		s.waiters = append(s.waiters, cx.Waker)
	}
	s.mu.Unlock()
	return Pending[TerminationStatus]()
}

// Status is a non-blocking peek at the outcome, reporting false if the task
// has not yet terminated.
func (o TerminationObserver) Status() (TerminationStatus, bool) {
	s := o.state
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.ready
}

// Done returns a channel closed once the outcome is available. Safe to
// select on from any number of goroutines concurrently.
func (o TerminationObserver) Done() <-chan struct{} {
	return o.state.closed
}
