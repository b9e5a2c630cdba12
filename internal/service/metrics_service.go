package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusops/faculty-loading-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	cacheLatency       prometheus.Observer
	cacheHitRatio      prometheus.Gauge
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	conflictDuration   prometheus.Observer
	conflictGroups     prometheus.Gauge
	scoringDuration    prometheus.Observer
	candidatesScored   prometheus.Counter
	candidatesSkipped  prometheus.Counter
	unparseableEntries prometheus.Counter

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	conflictRunCount     uint64
	recommendationRuns   uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	conflictDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "conflict_detection_duration_seconds",
		Help:    "Duration of full conflict detection passes",
		Buckets: prometheus.DefBuckets,
	})

	conflictGroups := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "conflict_groups_last_run",
		Help: "Conflict groups found by the most recent detection pass",
	})

	scoringDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommendation_scoring_duration_seconds",
		Help:    "Duration of candidate scoring passes",
		Buckets: prometheus.DefBuckets,
	})

	candidatesScored := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommendation_candidates_scored_total",
		Help: "Total faculty candidates scored",
	})

	candidatesSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommendation_candidates_skipped_total",
		Help: "Candidates skipped after a scoring failure",
	})

	unparseableEntries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_unparseable_time_total",
		Help: "Schedule writes whose time block could not be parsed",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheHitRatio, cacheHits, cacheMisses,
		conflictDuration, conflictGroups, scoringDuration, candidatesScored, candidatesSkipped, unparseableEntries, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:           registry,
		handler:            handler,
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		cacheLatency:       cacheLatency,
		cacheHitRatio:      cacheHitRatio,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		conflictDuration:   conflictDuration,
		conflictGroups:     conflictGroups,
		scoringDuration:    scoringDuration,
		candidatesScored:   candidatesScored,
		candidatesSkipped:  candidatesSkipped,
		unparseableEntries: unparseableEntries,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveConflictRun records a full conflict detection pass.
func (m *MetricsService) ObserveConflictRun(groups int, duration time.Duration) {
	if m == nil {
		return
	}
	m.conflictDuration.Observe(duration.Seconds())
	m.conflictGroups.Set(float64(groups))
	atomic.AddUint64(&m.conflictRunCount, 1)
}

// ObserveScoringRun records a candidate scoring pass.
func (m *MetricsService) ObserveScoringRun(scored, skipped int, duration time.Duration) {
	if m == nil {
		return
	}
	m.scoringDuration.Observe(duration.Seconds())
	m.candidatesScored.Add(float64(scored))
	if skipped > 0 {
		m.candidatesSkipped.Add(float64(skipped))
	}
	atomic.AddUint64(&m.recommendationRuns, 1)
}

// RecordUnparseableTime counts a schedule write whose time block failed to parse.
func (m *MetricsService) RecordUnparseableTime() {
	if m == nil {
		return
	}
	m.unparseableEntries.Inc()
}

// Snapshot returns aggregated metrics suitable for the health surface.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var cacheRatio float64
	totalLookups := hits + misses
	if totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		ConflictRuns:             atomic.LoadUint64(&m.conflictRunCount),
		RecommendationRuns:       atomic.LoadUint64(&m.recommendationRuns),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
