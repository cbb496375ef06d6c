// Package workpool provides a bounded worker pool for fan-out computations.
//
// A [Pool] runs submitted jobs concurrently with at most Limit jobs in
// flight. Submitting while the pool is full blocks the caller until a slot
// frees up, and [Pool.Wait] blocks until every submitted job has finished.
//
// Jobs must not share mutable state unless it is partitioned up front. The
// intended pattern is "pre-size, then fan out": allocate a results slice,
// then give each job a disjoint index range to write.
//
//	out := make([]float64, len(items))
//	p, _ := workpool.New(ctx, workpool.DefaultLimit())
//	for i := range items {
//	    p.Go(func(ctx context.Context) error {
//	        out[i] = compute(items[i])
//	        return nil
//	    })
//	}
//	err := p.Wait()
//
// A Pool serves a single batch: after Wait returns it must not be reused.
package workpool

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/vesselgen/pkg/errors"
)

// DefaultLimit returns twice the number of logical CPUs, or 4 when the CPU
// count is unknown.
func DefaultLimit() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 4
	}
	return 2 * n
}

// Pool is a bounded worker pool backed by an errgroup.
type Pool struct {
	g     *errgroup.Group
	ctx   context.Context
	limit int
	done  atomic.Int64
	skip  atomic.Int64
}

// New creates a pool that runs at most limit jobs at once. The pool's
// context is derived from ctx and is cancelled when a job fails or when ctx
// is cancelled.
//
// A limit of zero or less is an input error.
func New(ctx context.Context, limit int) (*Pool, error) {
	if limit <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "worker pool size must be positive, got %d", limit)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	return &Pool{g: g, ctx: gctx, limit: limit}, nil
}

// Limit returns the maximum number of concurrently running jobs.
func (p *Pool) Limit() int { return p.limit }

// Context returns the context passed to jobs.
func (p *Pool) Context() context.Context { return p.ctx }

// Go submits a job. It blocks while Limit jobs are already running. A job
// whose turn comes after the pool's context was cancelled is skipped and
// reports the context error instead.
func (p *Pool) Go(fn func(ctx context.Context) error) {
	p.submit(fn, nil)
}

func (p *Pool) submit(fn func(ctx context.Context) error, skipped func(error)) {
	p.g.Go(func() error {
		if err := p.ctx.Err(); err != nil {
			p.skip.Add(1)
			if skipped != nil {
				skipped(err)
			}
			return err
		}
		err := fn(p.ctx)
		p.done.Add(1)
		return err
	})
}

// Wait blocks until all submitted jobs have finished and returns the first
// error any of them returned.
func (p *Pool) Wait() error {
	return p.g.Wait()
}

// Completed returns the number of jobs that ran to completion so far.
func (p *Pool) Completed() int64 { return p.done.Load() }

// Skipped returns the number of jobs skipped because of cancellation.
func (p *Pool) Skipped() int64 { return p.skip.Load() }

// Future holds the result of a job submitted with [Enqueue].
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Enqueue submits a job that produces a value and returns a future for it.
// Like [Pool.Go] it blocks while the pool is full.
func Enqueue[T any](p *Pool, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	p.submit(func(ctx context.Context) error {
		defer close(f.done)
		f.val, f.err = fn(ctx)
		return f.err
	}, func(err error) {
		f.err = err
		close(f.done)
	})
	return f
}

// Wait blocks until the job has finished and returns its result.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.val, f.err
}
