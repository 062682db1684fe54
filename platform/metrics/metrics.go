// Package metrics provides Prometheus instrumentation for the HTTP layer and
// the journey engine.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Number of in-flight HTTP requests",
		},
	)

	journeysAssembled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeys_assembled_total",
			Help: "Total number of journeys assembled, by resolved status",
		},
		[]string{"status"},
	)

	malformedJourneySteps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "journey_steps_malformed_total",
			Help: "Stored journey step payloads that failed to parse and were ignored",
		},
	)

	performanceCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "performance_cache_lookups_total",
			Help: "Performance snapshot cache lookups, by result",
		},
		[]string{"result"},
	)
)

// Middleware records request counts and latency. The route template is used as
// the path label so ids do not explode label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		activeRequests.Inc()
		defer activeRequests.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry for scraping.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordJourney(status string) {
	journeysAssembled.WithLabelValues(status).Inc()
}

func RecordMalformedJourneySteps() {
	malformedJourneySteps.Inc()
}

func RecordCacheLookup(hit bool) {
	if hit {
		performanceCache.WithLabelValues("hit").Inc()
		return
	}
	performanceCache.WithLabelValues("miss").Inc()
}
