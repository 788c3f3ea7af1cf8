package executor

import (
	"context"
	"errors"
	"time"

	"github.com/joeycumines/cancellation"
	"github.com/joeycumines/go-catrate"
	"golang.org/x/sync/errgroup"
)

// ErrRateLimited is returned by Submit when the pool's rate limiter rejects
// the category a task was submitted under.
var ErrRateLimited = errors.New("executor: task rejected by rate limiter")

// Pool runs many cancellable tasks concurrently using errgroup for
// structured fan-out/fan-in, optionally rate-limiting admission per category
// with go-catrate's sliding-window limiter.
type Pool struct {
	group   *errgroup.Group
	ctx     context.Context
	limiter *catrate.Limiter
}

// PoolOption configures a Pool at construction time.
type PoolOption interface {
	applyPool(*poolConfig)
}

type poolConfig struct {
	rates map[time.Duration]int
}

type poolOptionFunc func(*poolConfig)

func (f poolOptionFunc) applyPool(cfg *poolConfig) { f(cfg) }

// WithRateLimit enables per-category admission rate limiting, following
// go-catrate's own NewLimiter(rates) shape: each key is a sliding window
// duration, each value the maximum events allowed in that window.
func WithRateLimit(rates map[time.Duration]int) PoolOption {
	return poolOptionFunc(func(cfg *poolConfig) {
		cfg.rates = rates
	})
}

// NewPool builds a Pool bound to ctx: cancelling ctx, or any submitted task
// returning an error, cancels the context observed by every other task in
// the pool (errgroup.WithContext semantics).
func NewPool(ctx context.Context, opts ...PoolOption) *Pool {
	cfg := &poolConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt.applyPool(cfg)
		}
	}
	g, gctx := errgroup.WithContext(ctx)
	p := &Pool{group: g, ctx: gctx}
	if len(cfg.rates) > 0 {
		p.limiter = catrate.NewLimiter(cfg.rates)
	}
	return p
}

// Result is the outcome of a task submitted to a Pool via Submit.
type Result[T any] struct {
	Outcome cancellation.Outcome[T]
	Err     error
}

// Submit builds a Task from build and runs it on the pool, returning its
// CancellationHandle immediately and a channel that receives exactly one
// Result once the task terminates. If the pool was configured with
// WithRateLimit and category is not currently allowed, Submit returns
// ErrRateLimited without starting the task.
//
// Submit is a package-level function, not a method on Pool, because Go does
// not allow a method to introduce its own type parameters.
func Submit[T any](p *Pool, category any, build func(*cancellation.Context) cancellation.Future[T], opts ...cancellation.TaskOption) (*cancellation.CancellationHandle, <-chan Result[T], error) {
	if p.limiter != nil {
		if _, ok := p.limiter.Allow(category); !ok {
			return nil, nil, ErrRateLimited
		}
	}

	task, handle, err := cancellation.New(build, opts...)
	if err != nil {
		return nil, nil, err
	}

	results := make(chan Result[T], 1)
	p.group.Go(func() error {
		outcome, err := RunTask(p.ctx, task)
		results <- Result[T]{Outcome: outcome, Err: err}
		close(results)
		return err
	})

	return handle, results, nil
}

// Wait blocks until every task submitted to the pool has returned, and
// reports the first non-nil error encountered (if any), per
// errgroup.Group.Wait's own contract.
func (p *Pool) Wait() error {
	return p.group.Wait()
}
