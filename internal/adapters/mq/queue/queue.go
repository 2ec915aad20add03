// Package queue defines the contract for buffering outbound
// notifications between the poll loop and the delivery workers.
//
// Delivery must never block the poll loop from persisting a fresh
// baseline, so Enqueue is non-blocking and reports backpressure to the
// caller instead.
package queue

import (
	"context"
	"sync"

	"github.com/okian/hdwatch/internal/domain/model"
	"github.com/okian/hdwatch/pkg/metrics"
)

// defaultCapacity bounds the outbound buffer; a full leaderboard of
// simultaneous personal bests fits with room to spare.
const defaultCapacity = 4096

// Notification is the payload type flowing through the queue.
type Notification = model.Notification

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a notification to the queue.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, n Notification) bool

	// Dequeue returns a channel that receives notifications as they
	// become available. The channel is closed when the queue closes.
	Dequeue(ctx context.Context) <-chan Notification

	// Len returns the current number of buffered notifications.
	Len(ctx context.Context) int

	// Close shuts down the queue. After closing, no new notifications
	// can be enqueued and the dequeue channel drains then closes.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	notifications chan Notification
	capacity      int
	mu            sync.RWMutex
	closed        bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.notifications = make(chan Notification, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

// Enqueue adds a notification to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, n Notification) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError("closed")
		return false
	}

	select {
	case q.notifications <- n:
		metrics.UpdateQueueSize(len(q.notifications))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError("context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError("queue_full")
		return false
	}
}

// Dequeue returns a channel that receives notifications as they become
// available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Notification {
	out := make(chan Notification)
	go func() {
		defer close(out)
		for n := range q.notifications {
			select {
			case out <- n:
				metrics.UpdateQueueSize(len(q.notifications))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of buffered notifications.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.notifications)
}

// Close shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.notifications)
	q.closed = true

	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
