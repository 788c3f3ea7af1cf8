package cancellation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCancellationObserver_IsCancelled(t *testing.T) {
	r := require.New(t)

	exec := newExecutionContext(nil, "", nil)
	obs, guard := exec.enterStructuredCancellation()
	r.False(obs.IsCancelled())

	exec.notifyCancelled()
	r.True(obs.IsCancelled())

	guard.release()
}

func TestCancellationObserver_Done(t *testing.T) {
	r := require.New(t)

	exec := newExecutionContext(nil, "", nil)
	obs, guard := exec.enterStructuredCancellation()

	select {
	case <-obs.Done():
		r.Fail("must not be closed before notifyCancelled")
	default:
	}

	exec.notifyCancelled()

	select {
	case <-obs.Done():
	default:
		r.Fail("must be closed after notifyCancelled")
	}

	guard.release()
}

func TestCriticalSectionGuard_ExitIsIdempotentlySafe(t *testing.T) {
	r := require.New(t)

	exec := newExecutionContext(nil, "", nil)
	guard := exec.enterCriticalSection()
	r.False(exec.canExit())

	r.NoError(guard.exit())
	r.True(exec.canExit())

	r.ErrorIs(guard.exit(), ErrGuardAlreadyReleased)
}

func TestCriticalSectionGuard_TryToDisableCancellation(t *testing.T) {
	r := require.New(t)

	exec := newExecutionContext(nil, "", nil)
	guard := exec.enterCriticalSection()

	ok, err := guard.tryToDisableCancellation()
	r.NoError(err)
	r.True(ok)

	// The hold is now permanent: canExit stays false even though the guard
	// has been "released" as far as the caller is concerned.
	r.False(exec.canExit())

	// A second attempt via the same guard reports it was already consumed.
	_, err = guard.tryToDisableCancellation()
	r.ErrorIs(err, ErrGuardAlreadyReleased)
}

func TestCriticalSectionGuard_TryToDisableCancellation_FailsIfAlreadyFired(t *testing.T) {
	r := require.New(t)

	exec := newExecutionContext(nil, "", nil)
	guard := exec.enterCriticalSection()
	exec.notifyCancelled()

	ok, err := guard.tryToDisableCancellation()
	r.NoError(err)
	r.False(ok, "disabling must fail once a notification has already fired")
	r.True(exec.canExit(), "the guard must still release normally on a failed disable attempt")
}
