// Package metrics exposes pipeline observations as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/course-qa/internal/core/domain"
	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Metrics = (*Collector)(nil)

// DefaultNamespace prefixes every metric name
const DefaultNamespace = "courseqa"

// Collector holds the service's Prometheus metrics.
// Each Collector owns its registry, so tests can create as many as they like.
type Collector struct {
	registry *prometheus.Registry

	questions      *prometheus.CounterVec
	questionTime   *prometheus.HistogramVec
	links          prometheus.Histogram
	loadFailures   prometheus.Counter
	skippedEntries prometheus.Counter
	upstreamErrors *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector creates a collector. An empty namespace uses DefaultNamespace.
// withRuntime adds the Go and process collectors.
func NewCollector(namespace string, withRuntime bool) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		questions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_total",
			Help:      "Questions answered, by answer mode",
		}, []string{"mode"}),
		questionTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "question_duration_seconds",
			Help:      "Time to answer a question, by answer mode",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		links: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "question_links",
			Help:      "Links returned per question",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 10},
		}),
		loadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_load_failures_total",
			Help:      "Requests that could not load the knowledge snapshot",
		}),
		skippedEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_entries_skipped_total",
			Help:      "Malformed snapshot entries skipped during normalisation",
		}),
		upstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Failed calls to external services",
		}, []string{"service"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answer_cache_lookups_total",
			Help:      "Answer cache lookups, by result",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	c.registry.MustRegister(
		c.questions,
		c.questionTime,
		c.links,
		c.loadFailures,
		c.skippedEntries,
		c.upstreamErrors,
		c.cacheLookups,
		c.httpRequests,
		c.httpDuration,
	)
	if withRuntime {
		c.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return c
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveQuestion(mode domain.AnswerMode, links int, took time.Duration) {
	c.questions.WithLabelValues(string(mode)).Inc()
	c.questionTime.WithLabelValues(string(mode)).Observe(took.Seconds())
	c.links.Observe(float64(links))
}

func (c *Collector) SnapshotLoadFailed() {
	c.loadFailures.Inc()
}

func (c *Collector) EntriesSkipped(n int) {
	if n > 0 {
		c.skippedEntries.Add(float64(n))
	}
}

func (c *Collector) UpstreamFailed(service string) {
	c.upstreamErrors.WithLabelValues(service).Inc()
}

func (c *Collector) AnswerCacheHit(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method, route string, status int, took time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
