package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/dept-routine-api/internal/dto"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheLookups    *prometheus.CounterVec

	generationDuration prometheus.Histogram
	generations        *prometheus.CounterVec
	sessions           *prometheus.CounterVec
	moves              *prometheus.CounterVec
	commits            prometheus.Counter
	committedEntries   prometheus.Counter
}

// NewMetricsService registers HTTP, cache and routine collectors on a private registry.
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
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "routine_generation_duration_seconds",
		Help:    "Time spent generating routine previews",
		Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
	})

	generations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routine_generations_total",
		Help: "Routine previews generated, by completeness",
	}, []string{"outcome"})

	sessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routine_sessions_total",
		Help: "Course sessions handled by the generator, by state",
	}, []string{"state"})

	moves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routine_preview_moves_total",
		Help: "Preview entry moves, by result",
	}, []string{"result"})

	commits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "routine_commits_total",
		Help: "Routines saved",
	})

	committedEntries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "routine_committed_entries_total",
		Help: "Routine entries written by saves",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheLookups,
		generationDuration, generations, sessions, moves, commits, committedEntries, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		cacheLatency:       cacheLatency,
		cacheWrite:         cacheWrite,
		cacheLookups:       cacheLookups,
		generationDuration: generationDuration,
		generations:        generations,
		sessions:           sessions,
		moves:              moves,
		commits:            commits,
		committedEntries:   committedEntries,
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveRoutineGeneration records one generator run.
func (m *MetricsService) ObserveRoutineGeneration(stats dto.RoutineStats, duration time.Duration) {
	if m == nil {
		return
	}
	m.generationDuration.Observe(duration.Seconds())
	outcome := "complete"
	if stats.UnassignedSessions > 0 {
		outcome = "partial"
	}
	m.generations.WithLabelValues(outcome).Inc()
	m.sessions.WithLabelValues("placed").Add(float64(stats.PlacedSessions))
	m.sessions.WithLabelValues("unassigned").Add(float64(stats.UnassignedSessions))
}

// RecordMove counts an accepted or rejected preview move.
func (m *MetricsService) RecordMove(accepted bool) {
	if m == nil {
		return
	}
	if accepted {
		m.moves.WithLabelValues("accepted").Inc()
	} else {
		m.moves.WithLabelValues("conflict").Inc()
	}
}

// RecordCommit counts a saved routine and its rows.
func (m *MetricsService) RecordCommit(inserted int) {
	if m == nil {
		return
	}
	m.commits.Inc()
	m.committedEntries.Add(float64(inserted))
}
