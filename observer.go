package cancellation

// CancellationObserver lets code inside a structured-cancellation section
// (see WithStructuredCancellation) check whether a cancellation
// request has been delivered, without blocking.
//
// Unlike TerminationObserver, this needs no background watcher goroutine:
// executionContext.notifyCancelled is always called synchronously from
// within Task.Poll, strictly before the inner Future (the only place a
// CancellationObserver can be polled from) is polled in that same call. So
// by the time user code ever gets to check this observer, any notification
// that applies to the current poll has already been delivered; a plain
// non-blocking channel check is sufficient and correct.
type CancellationObserver struct {
	ch <-chan struct{}
}

// IsCancelled reports whether a structured cancellation notification has
// fired.
func (o CancellationObserver) IsCancelled() bool {
	select {
	case <-o.ch:
		return true
	default:
		return false
	}
}

// Done returns the underlying notification channel, closed once cancellation
// is delivered, for callers that want to select on it directly (e.g. racing
// it against an I/O operation) rather than polling IsCancelled.
func (o CancellationObserver) Done() <-chan struct{} {
	return o.ch
}
