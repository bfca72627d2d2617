// Package queue carries self-check cases from the producer to the worker
// pool through a bounded in-memory channel.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/okian/cardiorisk/pkg/metrics"
)

const (
	defaultQueueCapacity = 1024
	enqueueRetryDelay    = time.Millisecond
)

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a case. It returns false if the queue is full or closed.
	Enqueue(ctx context.Context, c model.Case) bool
	// Dequeue returns a channel that receives cases until the queue is
	// closed and drained or ctx is done.
	Dequeue(ctx context.Context) <-chan model.Case
	// Len returns the current number of queued cases.
	Len(ctx context.Context) int
	// Close stops accepting cases. Queued cases are still delivered.
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	cases    chan model.Case
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.cases = make(chan model.Case, q.capacity)
	metrics.UpdateQueue(0, q.capacity)
	return q
}

// Enqueue adds a case without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, c model.Case) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordEnqueueError("closed")
		return false
	}
	select {
	case <-ctx.Done():
		metrics.RecordEnqueueError("context_cancelled")
		return false
	default:
	}

	select {
	case q.cases <- c:
		metrics.RecordEnqueue()
		metrics.UpdateQueue(len(q.cases), q.capacity)
		return true
	default:
		metrics.RecordEnqueueError("queue_full")
		return false
	}
}

// EnqueueWait retries Enqueue until the case is accepted, the queue is
// closed or ctx is done.
func (q *InMemoryQueue) EnqueueWait(ctx context.Context, c model.Case) error {
	for !q.Enqueue(ctx, c) {
		if q.IsClosed() {
			return ErrClosed
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("enqueue case %s: %w", c.ID, ctx.Err())
		case <-time.After(enqueueRetryDelay):
		}
	}
	return nil
}

// Dequeue returns a channel fed from the queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan model.Case {
	out := make(chan model.Case)
	go func() {
		defer close(out)
		for c := range q.cases {
			select {
			case out <- c:
				metrics.RecordDequeue()
				metrics.UpdateQueue(len(q.cases), q.capacity)
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued cases.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.cases)
}

// Close stops accepting cases. It is safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.cases)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
