// Package queue holds scans waiting for the verification worker.
//
// The queue is bounded: when it is full, Enqueue fails fast so the HTTP
// layer can answer with backpressure instead of blocking the operator.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/checkin/internal/domain/model"
	"github.com/okian/checkin/internal/domain/verify"
	"github.com/okian/checkin/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 64
)

// Outcome is what the worker sends back for a job.
type Outcome struct {
	Entry verify.Entry
	Err   error
}

// Job is one scan waiting for verification, pinned to the session that was
// current when it was accepted. Reply must be buffered so the worker never
// blocks on a caller that gave up.
type Job struct {
	Session    *verify.Session
	Scan       model.ScanEvent
	EnqueuedAt time.Time
	Reply      chan Outcome
}

// NewJob wraps scan with a one-slot reply channel.
func NewJob(session *verify.Session, scan model.ScanEvent) Job {
	return Job{Session: session, Scan: scan, EnqueuedAt: time.Now(), Reply: make(chan Outcome, 1)}
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job to the queue without blocking. It returns
	// ErrFull when the queue is at capacity and ErrClosed after Close.
	Enqueue(ctx context.Context, j Job) error

	// Dequeue returns a channel that will receive jobs in enqueue order.
	// The channel will be closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the current number of queued jobs.
	Len(ctx context.Context) int

	// Cap returns the maximum number of queued jobs.
	Cap() int

	// Close stops accepting jobs; queued jobs are still delivered.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

// Enqueue adds a job to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError("closed")
		return ErrClosed
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			metrics.RecordQueueEnqueueError("context_cancelled")
			return err
		}
	}

	select {
	case q.jobs <- j:
		metrics.UpdateQueueSize(len(q.jobs))
		return nil
	default:
		metrics.RecordQueueEnqueueError("queue_full")
		return ErrFull
	}
}

// Dequeue returns a channel that will receive jobs as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	out := make(chan Job)
	go func() {
		defer close(out)
		for j := range q.jobs {
			select {
			case out <- j:
				metrics.UpdateQueueSize(len(q.jobs))
				metrics.RecordQueueWait(float64(time.Since(j.EnqueuedAt).Microseconds()) / 1000)
			case <-ctx.Done():
				j.Reply <- Outcome{Err: ctx.Err()}
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	return size
}

// Cap returns the configured capacity.
func (q *InMemoryQueue) Cap() int {
	return q.capacity
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.jobs)
	q.closed = true

	return nil
}
