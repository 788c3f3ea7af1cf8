package cancellation

import "sync"

// notificationState is the three-state structured-cancellation notification
// channel from spec §1/§8: Armed (nobody has observed a cancel request yet,
// and notification is still possible), Fired (a cancel request has been
// delivered to any in-flight CancellationObserver), and Disarmed (a critical
// section permanently disabled delivery via TryToDisableCancellation).
type notificationState int

const (
	notifArmed notificationState = iota
	notifFired
	notifDisarmed
)

// executionContext is component (B): state shared between a running Task and
// the critical-section/structured-cancellation machinery it exposes to the
// user's Future via *Context. It tracks how many critical sections are
// currently held (preventCancellation) and whether a cancellation
// notification has fired or been permanently disarmed.
type executionContext struct {
	mu                  sync.Mutex
	preventCancellation int
	notifyState         notificationState
	notifyCh            chan struct{}

	logger  Logger
	name    string
	metrics *Metrics
}

func newExecutionContext(logger Logger, name string, metrics *Metrics) *executionContext {
	return &executionContext{
		notifyCh: make(chan struct{}),
		logger:   logger,
		name:     name,
		metrics:  metrics,
	}
}

// canExit reports whether the task may act on a cancellation request right
// now, i.e. no critical section currently holds preventCancellation open.
func (e *executionContext) canExit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preventCancellation == 0
}

// notifyCancelled fires the structured-cancellation notification exactly
// once, unless it has been permanently disarmed by a successful
// TryToDisableCancellation. It is called synchronously from within
// Task.Poll, strictly before the inner Future is polled in that same call —
// this ordering is what lets CancellationObserver avoid needing its own
// background watcher goroutine (see observer.go).
func (e *executionContext) notifyCancelled() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.notifyState != notifArmed {
		return
	}
	e.notifyState = notifFired
	close(e.notifyCh)
	logDebug(e.logger, e.name, "cancellation notification fired")
}

// enterCriticalSection increments preventCancellation and returns a guard
// that, when released, decrements it again. While any guard is held open,
// canExit reports false and the task will not act on a pending cancellation
// even if one has been requested.
func (e *executionContext) enterCriticalSection() *criticalSectionGuard {
	e.mu.Lock()
	e.preventCancellation++
	e.mu.Unlock()
	e.metrics.recordGuardEnter()
	return &criticalSectionGuard{exec: e}
}

// enterStructuredCancellation is like enterCriticalSection, but additionally
// returns a CancellationObserver bound to this context's notification
// channel, for bodies that want to race their own work against an incoming
// cancellation instead of unconditionally blocking it.
func (e *executionContext) enterStructuredCancellation() (CancellationObserver, *criticalSectionGuard) {
	guard := e.enterCriticalSection()
	return CancellationObserver{ch: e.notifyCh}, guard
}

// exitPreventCancellation decrements preventCancellation. Called by a guard
// on ordinary release (Exit).
func (e *executionContext) exitPreventCancellation() {
	e.mu.Lock()
	if e.preventCancellation > 0 {
		e.preventCancellation--
	}
	e.mu.Unlock()
	e.metrics.recordGuardExit()
}

// disableNotification permanently disarms structured-cancellation delivery
// if it has not already fired, leaving preventCancellation incremented by
// the caller's guard (the hold becomes permanent). It reports whether
// disarming succeeded; false means a notification had already fired and the
// caller's critical section should instead release normally.
func (e *executionContext) disableNotification() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.notifyState == notifFired {
		return false
	}
	e.notifyState = notifDisarmed
	logDebug(e.logger, e.name, "cancellation notification disabled")
	return true
}
