package executor

import (
	"context"
	"testing"
	"time"

	"github.com/joeycumines/cancellation"
	"github.com/stretchr/testify/require"
)

func TestRun_DrivesFutureToCompletion(t *testing.T) {
	r := require.New(t)

	release := make(chan struct{})
	f := cancellation.Go(func() int {
		<-release
		return 99
	})

	done := make(chan int, 1)
	go func() {
		v, err := Run(context.Background(), f)
		r.NoError(err)
		done <- v
	}()

	close(release)
	select {
	case v := <-done:
		r.Equal(99, v)
	case <-time.After(2 * time.Second):
		r.Fail("Run did not complete in time")
	}
}

func TestRun_ReturnsContextError(t *testing.T) {
	r := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run[int](ctx, cancellation.Never[int]())
	r.ErrorIs(err, context.Canceled)
}

func TestRunTask_ReportsOutcome(t *testing.T) {
	r := require.New(t)

	task, _, err := cancellation.New(func(*cancellation.Context) cancellation.Future[int] {
		return cancellation.Completed(7)
	})
	r.NoError(err)

	outcome, err := RunTask(context.Background(), task)
	r.NoError(err)
	r.False(outcome.Cancelled)
	r.Equal(7, outcome.Value)
}

func TestRunTask_ReportsCancellation(t *testing.T) {
	r := require.New(t)

	task, handle, err := cancellation.New(func(*cancellation.Context) cancellation.Future[int] {
		return cancellation.Never[int]()
	})
	r.NoError(err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		handle.Cancel()
	}()

	outcome, err := RunTask(context.Background(), task)
	r.NoError(err)
	r.True(outcome.Cancelled)
}
