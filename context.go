package cancellation

// Context is passed to the builder function given to New; it is the user
// code's window into the task's executionContext (component B). It exposes
// critical sections and structured cancellation, the two ways a Future body
// can interact with cancellation beyond simply being dropped.
type Context struct {
	exec *executionContext
}

// TryToDisableCancellation attempts to permanently prevent this task from
// ever being cancelled from this point on. It composes the same machinery as
// CriticalSection: entering a critical section and then immediately trying
// to make its hold permanent. It reports false if a cancellation
// notification had already fired before the attempt, in which case
// cancellation was not disabled and the brief critical section it opened has
// already been released.
func (c *Context) TryToDisableCancellation() bool {
	guard := c.exec.enterCriticalSection()
	ok, err := guard.tryToDisableCancellation()
	if err != nil {
		// enterCriticalSection always returns a fresh, unreleased guard, so
		// tryToDisableCancellation cannot legitimately fail here.
		panic(&ContractViolationError{Op: "TryToDisableCancellation", Detail: err.Error()})
	}
	return ok
}

// CriticalSection wraps body so that, for as long as it has not completed,
// the task cannot be cancelled: canExit reports false, so the Task does not
// act on a cancellation request (it still fires the structured-cancellation
// notification, but only exits as cancelled once every open critical section
// has released). The guard is entered lazily, on the
// first poll of the returned Future, and is always released — even if body
// panics — matching the Rust original's Drop-based guarantee.
//
// CriticalSection is a package-level function, not a method on Context,
// because Go does not allow a method to introduce its own type parameters.
func CriticalSection[T any](c *Context, body Future[T]) Future[T] {
	return &criticalSectionFuture[T]{exec: c.exec, body: body}
}

// WithStructuredCancellation is like CriticalSection, but additionally gives
// body's constructor a CancellationObserver it can use to race its own work
// against an incoming cancellation instead of unconditionally blocking it
// for the critical section's whole duration.
func WithStructuredCancellation[T any](c *Context, build func(CancellationObserver) Future[T]) Future[T] {
	return &structuredCancellationFuture[T]{exec: c.exec, build: build}
}

type criticalSectionFuture[T any] struct {
	exec    *executionContext
	body    Future[T]
	guard   *criticalSectionGuard
	entered bool
}

func (f *criticalSectionFuture[T]) Poll(cx *PollContext) (result Poll[T]) {
	if !f.entered {
		f.entered = true
		f.guard = f.exec.enterCriticalSection()
	}
	defer func() {
		if r := recover(); r != nil {
			f.guard.release()
			panic(r)
		}
	}()
	result = f.body.Poll(cx)
	if result.IsReady() {
		f.guard.release()
	}
	return result
}

type structuredCancellationFuture[T any] struct {
	exec    *executionContext
	build   func(CancellationObserver) Future[T]
	guard   *criticalSectionGuard
	body    Future[T]
	entered bool
}

func (f *structuredCancellationFuture[T]) Poll(cx *PollContext) (result Poll[T]) {
	if !f.entered {
		f.entered = true
		observer, guard := f.exec.enterStructuredCancellation()
		f.guard = guard
		f.body = f.build(observer)
	}
	defer func() {
		if r := recover(); r != nil {
			f.guard.release()
			panic(r)
		}
	}()
	result = f.body.Poll(cx)
	if result.IsReady() {
		f.guard.release()
	}
	return result
}
