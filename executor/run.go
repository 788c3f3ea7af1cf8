// Package executor drives cancellation.Future/cancellation.Task values to
// completion. The core cancellation package deliberately assumes an
// asynchronous task scheduler exists elsewhere (see spec's Non-goals); this
// package is *a* scheduler for it, not *the* one production systems built on
// buck2's own more_futures package use.
package executor

import (
	"context"

	"github.com/joeycumines/cancellation"
)

// Run drives f to completion on the calling goroutine, parking between polls
// on a channel-backed Waker rather than busy-polling. It returns early with
// ctx.Err() if ctx is cancelled before f completes; f itself is not told
// about ctx (callers that want ctx-driven cancellation should wire a
// CancellationObserver, or cancel f's own CancellationHandle from a
// goroutine watching ctx.Done()).
//
// This mirrors the teacher package's own preference for a small,
// hand-rolled, lock-protected scheduling primitive (eventloop's FastState and
// promise subscriber fan-out) over hiding the poll loop inside goroutines the
// caller can't observe.
func Run[T any](ctx context.Context, f cancellation.Future[T]) (T, error) {
	wake := make(chan struct{}, 1)
	waker := cancellation.WakerFunc(func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	})
	cx := &cancellation.PollContext{Waker: waker}

	for {
		if v, ok := f.Poll(cx).Value(); ok {
			return v, nil
		}
		select {
		case <-wake:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// RunTask is Run specialised for a *cancellation.Task, returning the task's
// Outcome — whether it finished normally or was cancelled — rather than a
// bare T.
func RunTask[T any](ctx context.Context, t *cancellation.Task[T]) (cancellation.Outcome[T], error) {
	return Run[cancellation.Outcome[T]](ctx, t)
}
