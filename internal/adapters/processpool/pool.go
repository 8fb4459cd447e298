/*
Package processpool bounds the number of child processes the tool runs at
once. Tasks beyond the capacity wait in FIFO order for a free slot; each task
carries its own timeout, and every live child is tracked so host signals can
be forwarded to it.
*/
package processpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/FocusTorn/pae/internal/core/domain/process"
	"github.com/FocusTorn/pae/internal/core/ports"
	"github.com/FocusTorn/pae/internal/logging"
)

// Spawner runs one request to completion under the given task ID.
type Spawner interface {
	Exec(ctx context.Context, id string, req process.Request) process.Result
}

// Pool implements ports.ProcessPool.
type Pool struct {
	spawner        Spawner
	tracker        *Tracker
	sem            *semaphore.Weighted
	capacity       int
	defaultTimeout time.Duration
	metrics        metrics

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
	stop     context.Context
	stopPool context.CancelFunc
}

var _ ports.ProcessPool = (*Pool)(nil)

// NewPool creates a pool running at most capacity tasks at once.
// It panics if spawner or tracker is nil.
func NewPool(spawner Spawner, tracker *Tracker, capacity int, defaultTimeout time.Duration) *Pool {
	if spawner == nil {
		panic("spawner cannot be nil")
	}
	if tracker == nil {
		panic("tracker cannot be nil")
	}
	if capacity < 1 {
		capacity = 1
	}
	if defaultTimeout <= 0 {
		defaultTimeout = process.DefaultTimeout
	}
	stop, cancel := context.WithCancel(context.Background())
	return &Pool{
		spawner:        spawner,
		tracker:        tracker,
		sem:            semaphore.NewWeighted(int64(capacity)),
		capacity:       capacity,
		defaultTimeout: defaultTimeout,
		stop:           stop,
		stopPool:       cancel,
	}
}

// Capacity returns the maximum number of concurrently running tasks.
func (p *Pool) Capacity() int {
	return p.capacity
}

// Tracker returns the arena of live children.
func (p *Pool) Tracker() *Tracker {
	return p.tracker
}

/*
ExecuteWithPool runs command with args once a slot is free and returns its
result. Tasks submitted after Shutdown, or still queued when it is called,
resolve as rejected. A task whose own timeout fires resolves as timed out
without affecting any other task.
*/
func (p *Pool) ExecuteWithPool(ctx context.Context, command string, args []string, opts process.Options) process.Result {
	id := uuid.NewString()
	logger := logging.FromContext(ctx).With("task", id)

	if !p.enter() {
		return p.reject(id, process.ErrRejected)
	}
	defer p.inflight.Done()

	p.metrics.queued(1)
	acquireCtx, cancel := context.WithCancel(ctx)
	stopAfter := context.AfterFunc(p.stop, cancel)
	err := p.sem.Acquire(acquireCtx, 1)
	stopAfter()
	cancel()
	p.metrics.queued(-1)

	if err != nil {
		if ctx.Err() != nil {
			return p.reject(id, fmt.Errorf("%w: %w", process.ErrRejected, ctx.Err()))
		}
		return p.reject(id, process.ErrRejected)
	}
	defer p.sem.Release(1)

	if p.isClosed() {
		return p.reject(id, process.ErrRejected)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = p.defaultTimeout
	}
	p.metrics.started()
	logger.Debug("task started", "command", command, "timeout", opts.Timeout)

	result := p.spawner.Exec(ctx, id, process.Request{Command: command, Args: args, Options: opts})
	result.TaskID = id
	p.metrics.finished(result.Reason)

	logger.Debug("task finished", "reason", result.Reason, "exitCode", result.ExitCode)
	return result
}

// RunBatch submits every request concurrently and returns the results in
// request order.
func (p *Pool) RunBatch(ctx context.Context, reqs []process.Request) []process.Result {
	results := make([]process.Result, len(reqs))
	var g errgroup.Group
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			results[i] = p.ExecuteWithPool(ctx, req.Command, req.Args, req.Options)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Metrics returns a snapshot of the pool counters.
func (p *Pool) Metrics() process.Metrics {
	return p.metrics.snapshot()
}

/*
Shutdown rejects new and queued tasks and waits for running ones. When ctx
ends first, the remaining children are killed and ctx's error is returned.
Calling Shutdown more than once is safe.
*/
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.stopPool()

	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if err := p.tracker.KillAll(); err != nil {
			return errors.Join(ctx.Err(), err)
		}
		return ctx.Err()
	}
}

func (p *Pool) enter() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.inflight.Add(1)
	return true
}

func (p *Pool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Pool) reject(id string, err error) process.Result {
	p.metrics.rejected()
	return process.Result{TaskID: id, ExitCode: 1, Reason: process.ReasonRejected, Err: err}
}
