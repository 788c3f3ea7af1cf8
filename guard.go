package cancellation

// criticalSectionGuard is the internal, one-shot handle returned by
// executionContext.enterCriticalSection. The panic-safe release-on-completion
// logic around it lives in the futures returned by CriticalSection and
// WithStructuredCancellation (context.go); Context.TryToDisableCancellation
// uses one internally. CriticalSectionGuard is its exported wrapper.
type criticalSectionGuard struct {
	exec     *executionContext
	released bool
}

// release is the ordinary, idempotent decrement path: it returns
// preventCancellation to what it was before this guard was created. Safe to
// call more than once; only the first call has an effect.
func (g *criticalSectionGuard) release() {
	if g.released {
		return
	}
	g.released = true
	g.exec.exitPreventCancellation()
}

// exit is the exported-facing consuming release, matching the Rust
// original's `exit_prevent_cancellation` on the guard itself (restored per
// SPEC_FULL's "supplemented features", since the distilled spec only
// describes the ExecutionContext-level behavior). Calling it twice reports
// ErrGuardAlreadyReleased rather than panicking, since a guard outliving its
// single valid use is reachable without violating the core's own invariants.
func (g *criticalSectionGuard) exit() error {
	if g.released {
		return ErrGuardAlreadyReleased
	}
	g.release()
	return nil
}

// tryToDisableCancellation attempts to permanently convert this guard's hold
// on preventCancellation into a permanent one, disarming structured
// cancellation notification for the remaining lifetime of the task. It
// reports false (and releases the guard normally) if a notification had
// already fired before the disarm could take effect.
func (g *criticalSectionGuard) tryToDisableCancellation() (bool, error) {
	if g.released {
		return false, ErrGuardAlreadyReleased
	}
	g.released = true
	if g.exec.disableNotification() {
		return true, nil
	}
	g.exec.exitPreventCancellation()
	return false, nil
}

// CriticalSectionGuard is the public handle type for a held critical section,
// with consuming Exit and TryToDisableCancellation methods for managing the
// section's lifetime manually. No exported function of this package returns
// one: CriticalSection and WithStructuredCancellation hold and release their
// guards internally, and the zero value wraps no guard.
type CriticalSectionGuard struct {
	g *criticalSectionGuard
}

// Exit releases the critical section, re-enabling cancellation once no other
// guard holds it open. Returns ErrGuardAlreadyReleased if already consumed.
func (c CriticalSectionGuard) Exit() error {
	return c.g.exit()
}

// TryToDisableCancellation attempts to permanently disable structured
// cancellation notification for the remainder of the task's life, leaving
// this guard's hold on preventCancellation permanent on success. It reports
// false if a cancellation notification already fired, in which case the
// guard is released normally instead.
func (c CriticalSectionGuard) TryToDisableCancellation() (bool, error) {
	return c.g.tryToDisableCancellation()
}
