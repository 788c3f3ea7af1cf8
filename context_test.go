package cancellation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCriticalSection_ReleasesOnPanic(t *testing.T) {
	r := require.New(t)

	exec := newExecutionContext(nil, "", nil)
	c := &Context{exec: exec}

	panicking := FutureFunc[int](func(*PollContext) Poll[int] {
		panic("boom")
	})
	f := CriticalSection[int](c, panicking)

	r.Panics(func() {
		f.Poll(&PollContext{})
	})
	r.True(exec.canExit(), "the critical section must be released even when the body panics")
}

func TestWithStructuredCancellation_ReleasesOnPanic(t *testing.T) {
	r := require.New(t)

	exec := newExecutionContext(nil, "", nil)
	c := &Context{exec: exec}

	f := WithStructuredCancellation[int](c, func(CancellationObserver) Future[int] {
		return FutureFunc[int](func(*PollContext) Poll[int] {
			panic("boom")
		})
	})

	r.Panics(func() {
		f.Poll(&PollContext{})
	})
	r.True(exec.canExit(), "the critical section must be released even when the body panics")
}

func TestCriticalSection_ReleasesOnlyOnReady(t *testing.T) {
	r := require.New(t)

	exec := newExecutionContext(nil, "", nil)
	c := &Context{exec: exec}

	ready := false
	f := CriticalSection[int](c, FutureFunc[int](func(*PollContext) Poll[int] {
		if ready {
			return Ready(1)
		}
		return Pending[int]()
	}))

	f.Poll(&PollContext{})
	r.False(exec.canExit(), "still pending: the critical section must remain held")

	ready = true
	f.Poll(&PollContext{})
	r.True(exec.canExit(), "ready: the critical section must be released")
}
