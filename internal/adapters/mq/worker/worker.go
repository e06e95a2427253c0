// Package worker drains the scan queue and runs each scan through the
// verifier, one at a time.
package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/checkin/internal/adapters/mq/queue"
	"github.com/okian/checkin/internal/domain/model"
	"github.com/okian/checkin/internal/domain/verify"
	"github.com/okian/checkin/pkg/logger"
)

// Verifier decides one scan against the session it was queued under.
// Implementations are not required to be safe for concurrent use; the
// worker never calls Verify concurrently.
type Verifier interface {
	Verify(ctx context.Context, session *verify.Session, scan model.ScanEvent) (verify.Entry, error)
}

// Queue defines how the worker receives jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// InMemoryWorker is the single consumer of the scan queue.
type InMemoryWorker struct {
	queue    Queue
	verifier Verifier
	name     string

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(q Queue, v Verifier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		verifier: v,
		name:     "scan-worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Nop(),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.logger = w.logger.Named(w.name)

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, j)
		}
	}
}

// Shutdown waits for Run to drain a closed queue. When ctx ends first the
// loop is told to stop after the job in flight and the context error is
// returned; jobs still queued then get no reply.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.stopOnce.Do(func() { close(w.shutdown) })
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) {
	entry, err := w.verifier.Verify(ctx, j.Session, j.Scan)
	if err != nil {
		w.logger.Error(ctx, "scan verification failed", logger.Error(err))
	}
	j.Reply <- queue.Outcome{Entry: entry, Err: err}
}
