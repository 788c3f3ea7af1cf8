package cancellation

import "sync"

// Poll is the result of polling a [Future]: either the future has produced
// a value (Ready) or it has not yet finished (Pending).
type Poll[T any] struct {
	ready bool
	value T
}

// Ready constructs a completed Poll carrying v.
func Ready[T any](v T) Poll[T] {
	return Poll[T]{ready: true, value: v}
}

// Pending constructs an incomplete Poll.
func Pending[T any]() Poll[T] {
	return Poll[T]{}
}

// IsReady reports whether the poll produced a value.
func (p Poll[T]) IsReady() bool {
	return p.ready
}

// Value returns the completed value and true, or the zero value and false
// if the poll was Pending.
func (p Poll[T]) Value() (T, bool) {
	return p.value, p.ready
}

// Waker is notified when a [Future] that previously returned Pending may be
// ready to make progress. Wake may be called from any goroutine, any number
// of times, including after the future has already completed; implementations
// must tolerate that.
type Waker interface {
	Wake()
}

// WakerFunc adapts a plain function to a Waker.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() {
	f()
}

// PollContext carries the Waker to invoke when a pending Future should be
// polled again. It is passed down through every Future in a poll tree for a
// single poll call.
type PollContext struct {
	Waker Waker
}

// Future is a single step of cooperative, poll-based computation, modelled on
// Rust's Future trait: a caller drives it by calling Poll repeatedly, and the
// supplied PollContext.Waker is used to signal that a subsequent poll may
// make progress.
type Future[T any] interface {
	Poll(cx *PollContext) Poll[T]
}

// FutureFunc adapts a plain poll function to a Future.
type FutureFunc[T any] func(cx *PollContext) Poll[T]

// Poll calls f.
func (f FutureFunc[T]) Poll(cx *PollContext) Poll[T] {
	return f(cx)
}

// Completed returns a Future that is Ready on its very first poll.
func Completed[T any](v T) Future[T] {
	return FutureFunc[T](func(*PollContext) Poll[T] {
		return Ready(v)
	})
}

// Never returns a Future that is always Pending; it never wakes its waker.
// Useful as a placeholder or in tests that drive cancellation without letting
// the inner future complete naturally.
func Never[T any]() Future[T] {
	return FutureFunc[T](func(*PollContext) Poll[T] {
		return Pending[T]()
	})
}

// Go runs fn on its own goroutine the first time it is polled, and reports
// Ready once fn returns. The PollContext.Waker in effect at the time of the
// *first* poll is invoked (at most once) when fn completes; later polls
// simply observe the cached result.
func Go[T any](fn func() T) Future[T] {
	g := &goFuture[T]{fn: fn}
	return g
}

type goFuture[T any] struct {
	once    sync.Once
	fn      func() T
	mu      sync.Mutex
	done    bool
	value   T
	waker   Waker
	wakerMu sync.Mutex
}

func (g *goFuture[T]) Poll(cx *PollContext) Poll[T] {
	g.mu.Lock()
	if g.done {
		v := g.value
		g.mu.Unlock()
		return Ready(v)
	}
	g.mu.Unlock()

	g.wakerMu.Lock()
	if g.waker == nil {
		g.waker = cx.Waker
	}
	g.wakerMu.Unlock()

	g.once.Do(func() {
		go func() {
			v := g.fn()
			g.mu.Lock()
			g.value = v
			g.done = true
			g.mu.Unlock()

			g.wakerMu.Lock()
			w := g.waker
			g.wakerMu.Unlock()
			if w != nil {
				w.Wake()
			}
		}()
	})

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		return Ready(g.value)
	}
	return Pending[T]()
}

// Yield returns a Future that is Pending on its first poll (scheduling a
// wake immediately) and Ready on the second, giving other work a chance to
// run in between. It is primarily useful in tests.
func Yield() Future[struct{}] {
	y := &yieldFuture{}
	return y
}

type yieldFuture struct {
	polled bool
}

func (y *yieldFuture) Poll(cx *PollContext) Poll[struct{}] {
	if !y.polled {
		y.polled = true
		if cx.Waker != nil {
			cx.Waker.Wake()
		}
		return Pending[struct{}]()
	}
	return Ready(struct{}{})
}
