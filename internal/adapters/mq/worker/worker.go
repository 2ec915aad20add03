// Package worker drains the notification queue and delivers each
// message through the configured sender. Delivery failures are logged
// and counted; they never propagate back to the poll loop.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/hdwatch/internal/adapters/mq/queue"
	"github.com/okian/hdwatch/pkg/logger"
	"github.com/okian/hdwatch/pkg/metrics"
)

// Shutdown timeout constants.
const (
	workerShutdownTimeout = 5 * time.Second
)

// Notification abstracts what workers read off the queue.
type Notification = queue.Notification

// Sender pushes one rendered notification to the outbound sink.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Queue defines how workers receive notifications.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Notification
}

// Worker delivers notifications until its queue closes or the context
// is canceled.
type Worker struct {
	queue  Queue
	sender Sender
	name   string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewWorker creates a delivery worker with configuration options.
func NewWorker(q Queue, sender Sender, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		sender:   sender,
		name:     "deliver",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}

	return w
}

// Run starts the delivery loop.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	notifications := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case n, ok := <-notifications:
			if !ok {
				return
			}
			w.deliver(ctx, n)
		}
	}
}

// signalStop requests the delivery loop to exit. Safe to call more
// than once; Shutdown and Pool.Stop may both fire for the same worker.
func (w *Worker) signalStop() {
	w.shutdownOnce.Do(func() {
		close(w.shutdown)
	})
}

// Shutdown stops the worker, waiting for the in-flight delivery.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.signalStop()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// deliver pushes one notification to the sender.
func (w *Worker) deliver(ctx context.Context, n Notification) {
	start := time.Now()
	err := w.sender.Send(ctx, n.Text)
	metrics.RecordDeliveryLatency(time.Since(start))

	if err != nil {
		metrics.RecordNotificationFailed()
		w.logger.Error(ctx, "notification delivery failed",
			logger.Uint32("user_id", n.UserID),
			logger.Uint32("run_id", n.RunID),
			logger.Error(err),
		)
		return
	}

	metrics.RecordNotificationSent()
	w.logger.Debug(ctx, "notification delivered",
		logger.Uint32("user_id", n.UserID),
		logger.Uint32("run_id", n.RunID),
	)
}

// Pool manages multiple delivery workers.
type Pool struct {
	workers []*Worker
}

// NewPool creates a pool of count workers draining q through sender.
func NewPool(count int, q Queue, sender Sender) *Pool {
	if count < 1 {
		count = 1
	}

	p := &Pool{
		workers: make([]*Worker, count),
	}
	for i := 0; i < count; i++ {
		p.workers[i] = NewWorker(q, sender, WithName("deliver-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(count)

	return p
}

// Start launches all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop shuts down all workers, bounding the wait per worker.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.signalStop()
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}
