package cancellation

import (
	"sync"
	"sync/atomic"
)

// taskState is the lifecycle phase of a Task's sharedState, mirroring the
// Rust original's `State` enum: Pending -> Polled -> {Cancelled, Exited}.
// Cancelled moves on to Exited when the task finishes its final poll (see
// transitionToExited); Exited is terminal. A cancel request in either of
// these states is a contract violation or a no-op (see requestCancel).
type taskState int

const (
	statePending taskState = iota
	statePolled
	stateCancelled
	stateExited
)

func (s taskState) String() string {
	switch s {
	case statePending:
		return "Pending"
	case statePolled:
		return "Polled"
	case stateCancelled:
		return "Cancelled"
	case stateExited:
		return "Exited"
	default:
		return "Unknown"
	}
}

// sharedState is component (A) of the design: the state visible to both the
// Task being polled and the CancellationHandle used to request cancellation
// of it, from what may be an entirely different goroutine.
//
// The cancelled flag and state are deliberately separate: cancelled is an
// atomic, lock-free fast-path check read once at the start of every poll
// (that one reading serves both the pre- and post-poll checks), while state is the authoritative lifecycle phase, protected by
// mu, consulted only at the less-frequent transition points (first poll,
// cancel, exit). requestCancel stores cancelled before transitioning state,
// so a concurrent poll that observes cancelled=true is always guaranteed to
// also see (once it takes mu) a state consistent with that.
//
// reply is wired in once, at construction (see newSharedState), and is
// always delivered to on exit — whether or not cancellation was ever
// requested — so that a task's TerminationObserver resolves on every path,
// not only the cancelled one.
type sharedState struct {
	cancelled atomic.Bool

	mu    sync.Mutex
	state taskState
	waker Waker
	reply *terminationSender
}

func newSharedState(reply *terminationSender) *sharedState {
	return &sharedState{state: statePending, reply: reply}
}

// registerFirstPoll transitions Pending -> Polled{waker}. It is called at the
// start of every Task.Poll, before the inner future is polled, but the waker
// is stored exactly once: the Rust original guards this with a `started`
// flag (future.rs:142-158) and never refreshes the stored waker on
// subsequent polls, so neither does this.
func (s *sharedState) registerFirstPoll(w Waker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == statePending {
		s.state = statePolled
		s.waker = w
	}
}

// requestCancel is invoked from CancellationHandle.Cancel. It mirrors the
// Rust `cancel()` match on State exactly:
//
//   - Pending: no waker exists yet to wake; transition straight to Cancelled.
//   - Polled{waker}: transition to Cancelled and wake the stored waker so the
//     owning executor polls again and observes the cancellation.
//   - Cancelled: a second cancel on the same task is a contract violation —
//     exactly one CancellationHandle exists per task (see handle.go's
//     `consumed` guard), so reaching this branch means that invariant was
//     broken some other way; panic with ContractViolationError.
//   - Exited: the task has already finished running and its single reply was
//     already sent as part of that exit; cancelling afterwards is a safe
//     no-op.
func (s *sharedState) requestCancel() {
	s.cancelled.Store(true)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case statePending:
		s.state = stateCancelled
	case statePolled:
		w := s.waker
		s.state = stateCancelled
		if w != nil {
			w.Wake()
		}
	case stateCancelled:
		panic(&ContractViolationError{
			Op:     "cancel",
			Detail: "task was already cancelled",
		})
	case stateExited:
		// Already finished; nothing left to cancel.
	}
}

// transitionToExited is called once the inner Future (wrapped by Task)
// reports Ready, i.e. has actually produced a value. It reports the
// *lifecycle* half of the termination handoff: whether a cancellation was
// requested against this task at all (not a locally cached bool, the
// authoritative state). This is not, by itself, the final Cancelled-vs-
// Finished verdict — the Rust original's poll() wrapper (future.rs:167-176)
// additionally consults can_exit() at the same instant, and only reports
// Cancelled when both are true; a cancellation request held open forever by
// a successful TryToDisableCancellation still resolves Finished. The caller
// (Task.Poll) combines this return value with executionContext.canExit() to
// reach that verdict.
func (s *sharedState) transitionToExited() (stateWasCancelled bool, reply *terminationSender) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stateWasCancelled = s.state == stateCancelled
	reply = s.reply
	s.state = stateExited
	return stateWasCancelled, reply
}

// isCancelled is the fast-path, lock-free check read once by Task.pollInner
// before polling the inner future; its post-poll check reuses that reading.
func (s *sharedState) isCancelled() bool {
	return s.cancelled.Load()
}
