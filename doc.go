// Package cancellation provides a cooperative, externally-triggerable
// cancellation primitive for asynchronous tasks, built around a poll-based
// Future[T] abstraction.
//
// # Architecture
//
// A [Task] wraps a user-supplied [Future] built from a [*Context]. [New]
// returns the Task together with its sole [CancellationHandle]. Driving the
// Task (repeatedly calling its Poll method, typically via the executor
// subpackage's [executor.Run] or [executor.Pool]) runs the inner future to
// completion unless [CancellationHandle.Cancel] is called first.
//
// Four components make up the design:
//
//   - Shared State — the atomic cancelled flag and lifecycle state machine
//     (Pending -> Polled -> {Cancelled, Exited}) visible to both the Task
//     and its handle.
//   - Execution Context — critical-section bookkeeping
//     ([CriticalSection], [WithStructuredCancellation]) and the
//     three-state structured-cancellation notification channel.
//   - The Task itself — the Future[Outcome[T]] that performs the pre-poll
//     and post-poll cancellation checks around the inner future's own poll.
//   - Handles — [CancellationHandle], [TerminationObserver],
//     [CancellationObserver], and [CriticalSectionGuard].
//
// # Thread Safety
//
// [CancellationHandle.Cancel] may be called from any goroutine, concurrently
// with the Task being polled on another. [TerminationObserver] values may be
// cloned and polled/awaited from multiple goroutines simultaneously. A
// [Task] itself is not safe for concurrent Poll calls — exactly like any
// other poll-based Future, it must be driven by one goroutine at a time.
//
// # Non-goals
//
// This package does not implement preemptive cancellation (the inner future
// must itself check for cancellation, e.g. via [CancellationObserver], or
// simply stop being polled), does not support migrating a started Task to a
// different executor, and supports exactly one [CancellationHandle] per
// Task. The core itself never buffers a produced value across calls — that
// is left to whatever drives the Task (see the executor subpackage).
//
// # Usage
//
//	t, handle, err := cancellation.New(func(c *cancellation.Context) cancellation.Future[int] {
//	    return cancellation.Go(func() int {
//	        return 42
//	    })
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := executor.Run(context.Background(), t)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, ok := result.Get()
package cancellation
