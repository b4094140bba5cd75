// Package workers runs user-triggered actions on a bounded set of goroutines
// so the interactive surface never blocks on the network.
package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/jwtclient/internal/logging"
	"golang.org/x/sync/errgroup"
)

var (
	ErrPoolBusy   = errors.New("worker pool busy")
	ErrPoolClosed = errors.New("worker pool closed")
)

// DefaultSize is used when New is given a non-positive size.
const DefaultSize = 4

// Pool executes tasks with at most Size running at once. Submit never
// blocks: when every worker is busy the task is rejected with ErrPoolBusy.
type Pool struct {
	g      errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
	size   int
	active atomic.Int32
	logger logging.Logger

	mu     sync.RWMutex
	closed bool
}

func New(size int, logger logging.Logger) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	if logger == nil {
		logger = logging.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{ctx: ctx, cancel: cancel, size: size, logger: logger.With("module", "workers")}
	p.g.SetLimit(size)
	return p
}

func (p *Pool) Size() int { return p.size }

// Active returns the number of running tasks.
func (p *Pool) Active() int { return int(p.active.Load()) }

// Submit schedules fn. The context passed to fn is cancelled when Close
// gives up waiting. A panicking task is logged and does not take the pool
// down.
func (p *Pool) Submit(name string, fn func(ctx context.Context)) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	ok := p.g.TryGo(func() error {
		p.active.Add(1)
		defer p.active.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error(p.ctx, "task panicked", "task", name, "panic", fmt.Sprint(r))
			}
		}()
		fn(p.ctx)
		return nil
	})
	if !ok {
		p.logger.Warn(p.ctx, "task rejected", "task", name, "size", p.size)
		return ErrPoolBusy
	}
	return nil
}

// Go runs fn on the pool and hands its result to deliver on the same worker.
func Go[T any](p *Pool, name string, fn func(ctx context.Context) (T, error), deliver func(T, error)) error {
	return p.Submit(name, func(ctx context.Context) {
		v, err := fn(ctx)
		deliver(v, err)
	})
}

// Wait blocks until the tasks submitted so far have returned. The pool stays
// open; callers must not Submit concurrently with Wait.
func (p *Pool) Wait() {
	_ = p.g.Wait()
}

// Close stops accepting tasks and waits for running ones. If ctx ends first
// the running tasks' context is cancelled and Close still waits for them to
// return, then reports ctx.Err().
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = p.g.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}
