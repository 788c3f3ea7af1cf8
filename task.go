package cancellation

// Task is component (C): the cancellable unit of work. It wraps a
// user-supplied Future[T] (built from a *Context, so it can use
// CriticalSection/WithStructuredCancellation) together with the sharedState
// and executionContext that make it cancellable from the outside via a
// CancellationHandle.
//
// Task itself implements Future[Outcome[T]]: polling it drives the inner
// future and additionally performs the cancellation bookkeeping described in
// spec §8 — the pre-poll check (exit early if already cancelled and no
// critical section is open), the structured-cancellation notification (fired
// synchronously, before the inner future is polled), and the post-poll
// termination handoff once the inner future reports Ready.
type Task[T any] struct {
	shared *sharedState
	exec   *executionContext
	inner  Future[T]

	logger  Logger
	name    string
	metrics *Metrics

	startedLogged bool
}

// New constructs a Task and its sole CancellationHandle. build receives a
// *Context bound to the task's own executionContext, from which it
// constructs the Future[T] that the task will drive.
func New[T any](build func(*Context) Future[T], opts ...TaskOption) (*Task[T], *CancellationHandle, error) {
	cfg, err := resolveTaskOptions(opts)
	if err != nil {
		return nil, nil, err
	}

	exec := newExecutionContext(cfg.logger, cfg.name, cfg.metrics)
	inner := build(&Context{exec: exec})

	state := newObserverState()
	sender := newTerminationSender(state)
	shared := newSharedState(sender)

	t := &Task[T]{
		shared:  shared,
		exec:    exec,
		inner:   inner,
		logger:  cfg.logger,
		name:    cfg.name,
		metrics: cfg.metrics,
	}

	h := &CancellationHandle{
		shared:   shared,
		observer: TerminationObserver{state: state},
	}

	return t, h, nil
}

// Poll implements Future[Outcome[T]]. Each call performs, in order:
//
//  1. registerFirstPoll: record the waker the handle will wake on cancel,
//     exactly once (never refreshed on later polls).
//  2. pollInner: the pre-poll cancellation check, the inner future's own
//     poll (skipped entirely if the task already exited on the pre-poll
//     check), and the post-poll cancellation override.
//  3. If the inner poll produced a value (or pollInner reported that
//     cancellation already won), perform the termination handoff:
//     transition to Exited, then decide Finished vs Cancelled by combining
//     that lifecycle state with a fresh executionContext.canExit() read at
//     this exact instant — Cancelled only when a cancellation was requested
//     AND no critical section still holds cancellation open; otherwise
//     Finished, with the inner future's natural value, even though a
//     cancellation was requested — send that status to the handle's
//     TerminationObserver, and record metrics.
func (t *Task[T]) Poll(cx *PollContext) Poll[Outcome[T]] {
	t.shared.registerFirstPoll(cx.Waker)

	if !t.startedLogged {
		t.startedLogged = true
		t.metrics.recordStart()
		logDebug(t.logger, t.name, "task started")
	}

	result, exitedEarly := t.pollInner(cx)

	if !result.IsReady() && !exitedEarly {
		return Pending[Outcome[T]]()
	}

	stateWasCancelled, reply := t.shared.transitionToExited()
	// can_exit() is read at the handoff, not inferred from lifecycle state
	// alone: a critical section that permanently disabled cancellation via
	// TryToDisableCancellation must still resolve Finished with the natural
	// value, matching the Rust original's poll() wrapper (future.rs:167-176).
	wasCancelled := stateWasCancelled && t.exec.canExit()

	var status TerminationStatus
	var outcome Outcome[T]
	if wasCancelled {
		status = StatusCancelled
		outcome = Outcome[T]{Cancelled: true}
		logDebug(t.logger, t.name, "task cancelled")
	} else {
		status = StatusFinished
		v, _ := result.Value()
		outcome = Outcome[T]{Value: v}
		logDebug(t.logger, t.name, "task finished")
	}
	if reply != nil {
		reply.send(status)
	}
	t.metrics.recordTermination(status)

	return Ready(outcome)
}

// pollInner mirrors the Rust original's poll_inner: a pre-poll cancellation
// check, the inner future's own poll (unless already decided by the
// pre-poll check), and a post-poll override using the cancelled flag as it
// stood at the *start* of this call — matching the original's care to use a
// single consistent snapshot across both checks within one poll.
//
// It returns (result, exitedEarly): exitedEarly is true when the pre-poll
// check short-circuited without ever polling the inner future, or when the
// inner future was polled, is still pending, and the post-poll check finds
// no critical section left open. In both cases result is Pending (there is
// no value — the eventual Outcome will report Cancelled once the termination
// handoff runs).
func (t *Task[T]) pollInner(cx *PollContext) (Poll[T], bool) {
	cancelledAtEntry := t.shared.isCancelled()

	if cancelledAtEntry {
		if t.exec.canExit() {
			return Pending[T](), true
		}
		t.exec.notifyCancelled()
	}

	result := t.inner.Poll(cx)

	if !result.IsReady() && cancelledAtEntry && t.exec.canExit() {
		// Cancellation was requested, the inner future is still pending, and
		// no critical section is (or remains) open: treat this as exited,
		// even though the inner future never itself reported Ready. This
		// matches the Rust original letting a cancellation request win over
		// a still-pending inner future once nothing is left to block it.
		return result, true
	}

	return result, false
}
