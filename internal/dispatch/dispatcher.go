package dispatch

import (
	"context"
	"sync"

	"campus-link/internal/domain/match"

	"go.uber.org/zap"
)

// Job is one unit of background work.
type Job func(ctx context.Context) error

// Dispatcher runs submitted jobs on a fixed pool of workers. A panicking or
// failing job is logged and never takes a worker down.
type Dispatcher struct {
	workers int
	jobs    chan Job
	wg      sync.WaitGroup
	logger  *zap.Logger

	mu      sync.Mutex
	started bool
	closed  bool
}

func NewDispatcher(workers, buffer int, log *zap.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		workers: workers,
		jobs:    make(chan Job, buffer),
		logger:  log,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	d.wg.Add(d.workers)
	for i := 0; i < d.workers; i++ {
		go d.worker(ctx)
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-d.jobs:
			if !ok {
				return
			}
			if job == nil {
				continue
			}
			d.run(ctx, job)
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dispatch job panicked", zap.Any("panic", r))
		}
	}()

	if err := job(ctx); err != nil {
		d.logger.Warn("dispatch job failed", zap.Error(err))
	}
}

// Submit enqueues a job without blocking. Returns false when the queue is
// full or the dispatcher is shut down; callers decide whether to run inline.
func (d *Dispatcher) Submit(job Job) bool {
	if d == nil || job == nil {
		return false
	}
	// The lock is held across the send so Stop cannot close the channel
	// between the closed check and the enqueue.
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}

	select {
	case d.jobs <- job:
		return true
	default:
		d.logger.Warn("dispatch queue full, job dropped")
		return false
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
}

// MatchEmitted is what the async emitter forwards to once off the request path.
type MatchEmitted interface {
	NotifyMatch(ctx context.Context, m match.TeammateMatch)
}

// AsyncEmitter moves match notification fan-out onto the dispatcher so the
// matching loop never waits on lookups or delivery. When the queue rejects
// the job the notifier runs inline; a match must never lose its notifications.
type AsyncEmitter struct {
	dispatcher *Dispatcher
	notifier   MatchEmitted
}

func NewAsyncEmitter(dispatcher *Dispatcher, notifier MatchEmitted) *AsyncEmitter {
	return &AsyncEmitter{dispatcher: dispatcher, notifier: notifier}
}

func (e *AsyncEmitter) NotifyMatch(ctx context.Context, m match.TeammateMatch) {
	if e == nil || e.notifier == nil {
		return
	}
	ok := e.dispatcher.Submit(func(jobCtx context.Context) error {
		e.notifier.NotifyMatch(jobCtx, m)
		return nil
	})
	if !ok {
		e.notifier.NotifyMatch(ctx, m)
	}
}
