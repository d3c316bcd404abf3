// Package worker runs fire-and-forget background tasks, such as persisting
// level stats, off the gameplay path.
package worker

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Close when the pool was already closed.
var ErrClosed = errors.New("worker: pool closed")

// Task is a unit of background work. Its error is logged, never returned to
// the submitter.
type Task func(ctx context.Context) error

// Options configures a Pool.
type Options struct {
	Workers   int         // Concurrent workers, default 2
	QueueSize int         // Buffered tasks before Submit starts dropping, default 64
	Logger    *log.Logger // Defaults to a discard logger
}

// Pool is a bounded background executor. Submit never blocks; when the
// queue is full the task is dropped with a warning.
type Pool struct {
	tasks  chan Task
	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
	logger *log.Logger

	mu     sync.RWMutex
	closed bool

	stats Stats
}

// Stats counts what happened to submitted tasks.
type Stats struct {
	Submitted int
	Dropped   int
	Failed    int
	Succeeded int
}

// New starts a pool with the given options.
func New(opts Options) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)

	p := &Pool{
		tasks:  make(chan Task, opts.QueueSize),
		group:  group,
		ctx:    gctx,
		cancel: cancel,
		logger: opts.Logger,
	}

	for i := 0; i < opts.Workers; i++ {
		group.Go(p.work)
	}
	return p
}

func (p *Pool) work() error {
	for task := range p.tasks {
		err := task(p.ctx)

		p.mu.Lock()
		if err != nil {
			p.stats.Failed++
		} else {
			p.stats.Succeeded++
		}
		p.mu.Unlock()

		if err != nil {
			p.logger.Warn("background task failed", "error", err)
		}
	}
	return nil
}

// Submit queues a task. It reports false when the task was dropped because
// the pool is closed or its queue is full.
func (p *Pool) Submit(task func(ctx context.Context) error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.stats.Dropped++
		p.logger.Warn("task submitted after close, dropping")
		return false
	}

	select {
	case p.tasks <- task:
		p.stats.Submitted++
		return true
	default:
		p.stats.Dropped++
		p.logger.Warn("task queue full, dropping", "capacity", cap(p.tasks))
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
// If ctx expires first, in-flight tasks see their context cancelled and
// Close returns ctx.Err() once the workers exit.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- p.group.Wait() }()

	select {
	case err := <-done:
		p.cancel()
		return err
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}

// Stats returns a snapshot of the task counters.
func (p *Pool) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}
