// Package app wires capture, diffing, formatting, and delivery into the
// polling service.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/hdwatch/internal/adapters/mq/queue"
	"github.com/okian/hdwatch/internal/adapters/mq/worker"
	"github.com/okian/hdwatch/internal/adapters/scrape"
	"github.com/okian/hdwatch/internal/domain/dedupe"
	"github.com/okian/hdwatch/internal/domain/diff"
	"github.com/okian/hdwatch/internal/domain/format"
	"github.com/okian/hdwatch/internal/domain/model"
	"github.com/okian/hdwatch/pkg/logger"
	"github.com/okian/hdwatch/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultInterval    = 10 * time.Minute
	defaultQueueSize   = 4096
	defaultWorkerCount = 2
	defaultGuardSize   = 10_000
)

// Scraper captures the live leaderboard.
type Scraper interface {
	Capture(ctx context.Context) (model.Snapshot, error)
}

// Store persists and loads the baseline snapshot.
type Store interface {
	Load(ctx context.Context) (model.Snapshot, error)
	Save(ctx context.Context, snap model.Snapshot) error
}

// Sender pushes one formatted notification to the outbound sink.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Service owns the baseline snapshot and runs the poll cycle:
// capture -> diff -> notify -> persist. Cycles never overlap; the
// baseline and the cache file have a single writer.
type Service struct {
	mu sync.Mutex

	// Injected collaborators
	scraper Scraper
	store   Store
	sender  Sender

	// Built on Start
	queue *queue.InMemoryQueue
	pool  *worker.Pool
	guard dedupe.Guard

	// Configuration
	interval    time.Duration
	queueSize   int
	workerCount int
	guardSize   int

	// State
	baseline model.Snapshot
	started  bool

	// Logging
	logger logger.Logger
}

// New constructs a Service around its external collaborators.
func New(scraper Scraper, store Store, sender Sender, opts ...Option) *Service {
	s := &Service{
		scraper:     scraper,
		store:       store,
		sender:      sender,
		interval:    defaultInterval,
		queueSize:   defaultQueueSize,
		workerCount: defaultWorkerCount,
		guardSize:   defaultGuardSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start bootstraps the baseline and brings up the delivery pipeline.
// A bootstrap with no usable cache falls back to a live capture; if
// that fails too there is no baseline to diff against and Start errors.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("watcher")
	}

	baseline, err := s.bootstrap(ctx)
	if err != nil {
		return err
	}
	s.adoptBaseline(ctx, baseline)

	s.guard = dedupe.NewInMemoryGuard(
		dedupe.WithMaxSize(s.guardSize),
	)
	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
	)
	s.pool = worker.NewPool(s.workerCount, s.queue, s.sender)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "watcher started",
		logger.Int("baselineEntries", len(baseline.Entries)),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)

	return nil
}

// bootstrap loads the cached baseline, falling back to a live capture
// when the cache is missing or undecodable. The cache is advisory; the
// live source is authoritative.
func (s *Service) bootstrap(ctx context.Context) (model.Snapshot, error) {
	cached, err := s.store.Load(ctx)
	if err == nil {
		s.logger.Info(ctx, "baseline loaded from cache",
			logger.Any("capturedAt", cached.Timestamp),
		)
		return cached, nil
	}
	s.logger.Warn(ctx, "no usable cache, bootstrapping from the live source", logger.Error(err))

	fresh, err := s.scraper.Capture(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("bootstrap capture: %w", err)
	}

	if err := s.store.Save(ctx, fresh); err != nil {
		// Surfaced but not fatal: the in-memory baseline is usable,
		// only a restart before the next successful save loses it.
		s.logger.Error(ctx, "persisting bootstrap baseline failed", logger.Error(err))
	}

	return fresh, nil
}

// Run executes poll cycles until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return errors.New("service not started")
	}
	interval := s.interval
	s.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Cycle(ctx)
		}
	}
}

// Cycle runs one capture/diff/notify/persist pass. Capture failures
// skip the cycle and keep the baseline; persist failures are surfaced
// but the in-memory baseline still advances.
func (s *Service) Cycle(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	log := s.logger
	cycleID := uuid.NewString()
	metrics.RecordPollCycle()

	current, err := s.scraper.Capture(ctx)
	switch {
	case errors.Is(err, scrape.ErrNoResult):
		metrics.RecordCaptureNoResult()
		log.Warn(ctx, "capture extracted nothing, keeping baseline",
			logger.String("cycle", cycleID), logger.Error(err))
		return
	case err != nil:
		metrics.RecordCaptureError()
		log.Error(ctx, "capture failed, keeping baseline",
			logger.String("cycle", cycleID), logger.Error(err))
		return
	}

	events := diff.Diff(s.baseline, current)
	metrics.RecordEventsDetected(len(events))

	if len(events) == 0 {
		log.Debug(ctx, "no personal bests this cycle", logger.String("cycle", cycleID))
	}
	for _, ev := range events {
		s.enqueue(ctx, log, cycleID, ev)
	}

	// Persist unconditionally so the cached baseline timestamp stays
	// fresh even on quiet cycles.
	if err := s.store.Save(ctx, current); err != nil {
		log.Error(ctx, "persisting baseline failed; a restart will lose this cycle",
			logger.String("cycle", cycleID), logger.Error(err))
	}

	s.adoptBaseline(ctx, current)
}

// enqueue renders one event and hands it to the delivery queue, with
// the guard filtering achievements that were already notified.
func (s *Service) enqueue(ctx context.Context, log logger.Logger, cycleID string, ev diff.Event) {
	userID, runID := ev.Current.UserID, ev.Current.RunID

	if s.guard.SeenAndRecord(ctx, userID, runID) {
		metrics.RecordNotificationSuppressed()
		log.Debug(ctx, "achievement already notified, suppressing",
			logger.String("cycle", cycleID),
			logger.Uint32("user_id", userID),
			logger.Uint32("run_id", runID),
		)
		return
	}

	n := model.Notification{
		UserID: userID,
		RunID:  runID,
		Text:   format.Render(ev),
	}
	if !s.queue.Enqueue(ctx, n) {
		// Let the achievement be retried next cycle.
		s.guard.Unrecord(ctx, userID, runID)
		log.Warn(ctx, "notification queue refused the message",
			logger.String("cycle", cycleID),
			logger.Uint32("user_id", userID),
			logger.Uint32("run_id", runID),
		)
		return
	}

	log.Info(ctx, "personal best detected",
		logger.String("cycle", cycleID),
		logger.String("name", ev.Current.Name),
		logger.Uint32("user_id", userID),
		logger.Uint32("run_id", runID),
		logger.Float64("score", float64(ev.Current.Score)),
	)
}

// adoptBaseline replaces the in-memory baseline. Callers hold s.mu.
func (s *Service) adoptBaseline(_ context.Context, snap model.Snapshot) {
	s.baseline = snap
	metrics.UpdateBaseline(snap.Timestamp.Unix(), len(snap.Entries))
}

// Baseline returns the currently accepted snapshot.
func (s *Service) Baseline() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseline
}

// Stop drains the delivery pipeline and stops the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping watcher...")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}

	s.started = false
	s.logger.Info(ctx, "watcher stopped")
}
