// Package metrics provides Prometheus metrics for the hdwatch daemon.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the watcher.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Poll loop - what really matters for a watcher
	pollCycles       prometheus.Counter
	captureErrors    prometheus.Counter
	captureNoResult  prometheus.Counter
	eventsDetected   prometheus.Counter
	scrapeLatency    prometheus.Histogram
	baselineUnix     prometheus.Gauge
	baselineEntries  prometheus.Gauge

	// Notification delivery
	notificationsSent       prometheus.Counter
	notificationsFailed     prometheus.Counter
	notificationsSuppressed prometheus.Counter
	deliveryLatency         prometheus.Histogram
	webhookRetries          prometheus.Counter

	// Outbound queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueErrors *prometheus.CounterVec
	workerCount        prometheus.Gauge

	// Cache store
	cacheLoads      prometheus.Counter
	cacheLoadErrors prometheus.Counter
	cacheSaves      prometheus.Counter
	cacheSaveErrors prometheus.Counter
	cacheLatency    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hdwatch",
		subsystem:        "watcher",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.pollCycles = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "poll_cycles_total",
		Help: "Number of completed poll cycles.",
	})
	m.captureErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "capture_errors_total",
		Help: "Number of leaderboard captures that failed hard.",
	})
	m.captureNoResult = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "capture_no_result_total",
		Help: "Number of captures that extracted no usable rows.",
	})
	m.eventsDetected = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "events_detected_total",
		Help: "Number of personal-best events detected by diffing.",
	})
	m.scrapeLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "scrape_duration_seconds",
		Help:    "Time spent capturing the remote leaderboard.",
		Buckets: m.histogramBuckets,
	})
	m.baselineUnix = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "baseline_timestamp_seconds",
		Help: "Capture timestamp of the current baseline snapshot.",
	})
	m.baselineEntries = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "baseline_entries",
		Help: "Number of entries in the current baseline snapshot.",
	})

	m.notificationsSent = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "notifications_sent_total",
		Help: "Number of notifications delivered to the sink.",
	})
	m.notificationsFailed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "notifications_failed_total",
		Help: "Number of notifications the sink rejected after retries.",
	})
	m.notificationsSuppressed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "notifications_suppressed_total",
		Help: "Number of repeat notifications suppressed by the guard.",
	})
	m.deliveryLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "delivery_duration_seconds",
		Help:    "Time spent delivering one notification.",
		Buckets: m.histogramBuckets,
	})
	m.webhookRetries = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "webhook_retries_total",
		Help: "Number of webhook delivery retries.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Current number of buffered notifications.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Configured capacity of the notification queue.",
	})
	m.queueEnqueueErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total",
		Help: "Number of refused enqueues by reason.",
	}, []string{"reason"})
	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_count",
		Help: "Number of delivery workers.",
	})

	m.cacheLoads = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "cache_loads_total",
		Help: "Number of successful cache loads.",
	})
	m.cacheLoadErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "cache_load_errors_total",
		Help: "Number of cache loads that failed to decode.",
	})
	m.cacheSaves = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "cache_saves_total",
		Help: "Number of successful cache saves.",
	})
	m.cacheSaveErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "cache_save_errors_total",
		Help: "Number of cache saves that failed.",
	})
	m.cacheLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "cache_io_duration_seconds",
		Help:    "Time spent loading or saving the cache file.",
		Buckets: m.histogramBuckets,
	})
}

// GetRegistry returns the registry backing the global manager, for
// serving via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Poll loop helpers.

func RecordPollCycle()           { globalManager.pollCycles.Inc() }
func RecordCaptureError()        { globalManager.captureErrors.Inc() }
func RecordCaptureNoResult()     { globalManager.captureNoResult.Inc() }
func RecordEventsDetected(n int) { globalManager.eventsDetected.Add(float64(n)) }

func RecordScrapeLatency(d time.Duration) {
	globalManager.scrapeLatency.Observe(d.Seconds())
}

func UpdateBaseline(unixSeconds int64, entries int) {
	globalManager.baselineUnix.Set(float64(unixSeconds))
	globalManager.baselineEntries.Set(float64(entries))
}

// Notification delivery helpers.

func RecordNotificationSent()       { globalManager.notificationsSent.Inc() }
func RecordNotificationFailed()     { globalManager.notificationsFailed.Inc() }
func RecordNotificationSuppressed() { globalManager.notificationsSuppressed.Inc() }
func RecordWebhookRetry()           { globalManager.webhookRetries.Inc() }

func RecordDeliveryLatency(d time.Duration) {
	globalManager.deliveryLatency.Observe(d.Seconds())
}

// Queue and worker helpers.

func UpdateQueueSize(size int)         { globalManager.queueSize.Set(float64(size)) }
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }
func UpdateWorkerCount(count int)      { globalManager.workerCount.Set(float64(count)) }

func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// Cache store helpers.

func RecordCacheLoadError() { globalManager.cacheLoadErrors.Inc() }
func RecordCacheSaveError() { globalManager.cacheSaveErrors.Inc() }

func RecordCacheLoad(d time.Duration) {
	globalManager.cacheLoads.Inc()
	globalManager.cacheLatency.Observe(d.Seconds())
}

func RecordCacheSave(d time.Duration) {
	globalManager.cacheSaves.Inc()
	globalManager.cacheLatency.Observe(d.Seconds())
}
