package cancellation

import "sync"

// CancellationHandle is component (D)'s primary member: the sole external
// handle capable of requesting cancellation of a Task. Exactly one
// CancellationHandle exists per Task (returned together from New); calling
// Cancel more than once is a contract violation and panics with a
// ContractViolationError, matching spec §1's "exactly one canceller per
// task" non-goal.
type CancellationHandle struct {
	mu       sync.Mutex
	consumed bool

	shared   *sharedState
	observer TerminationObserver
}

// Cancel requests cancellation of the task and returns its
// TerminationObserver, so the caller can learn how the task actually
// terminated (it may finish normally if cancellation loses the race, or
// report ExecutorShutdown if the task was already dropped without ever being
// driven to completion). Calling Cancel a second time on the same handle
// panics with a ContractViolationError.
func (h *CancellationHandle) Cancel() TerminationObserver {
	h.mu.Lock()
	if h.consumed {
		h.mu.Unlock()
		panic(&ContractViolationError{
			Op:     "CancellationHandle.Cancel",
			Detail: "handle was already used to cancel this task",
		})
	}
	h.consumed = true
	h.mu.Unlock()

	h.shared.requestCancel()
	return h.observer
}

// TerminationObserver returns this task's TerminationObserver without
// requesting cancellation, for callers that only want to observe how the
// task ends (which may or may not be due to cancellation from elsewhere).
// Safe to call any number of times, before or after Cancel.
func (h *CancellationHandle) TerminationObserver() TerminationObserver {
	return h.observer
}
