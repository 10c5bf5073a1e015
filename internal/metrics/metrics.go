package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service-level Prometheus collectors
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	SearchesTotal       *prometheus.CounterVec
	LeadsCaptured       prometheus.Counter
	ReviewsSubmitted    prometheus.Counter
	CacheHits           *prometheus.CounterVec
}

// New registers and returns the service collectors
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tesseract",
				Subsystem: "directory",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tesseract",
				Subsystem: "directory",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		SearchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tesseract",
				Subsystem: "directory",
				Name:      "searches_total",
				Help:      "Total number of directory searches",
			},
			[]string{"sort"},
		),
		LeadsCaptured: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "tesseract",
				Subsystem: "directory",
				Name:      "leads_captured_total",
				Help:      "Total number of leads captured",
			},
		),
		ReviewsSubmitted: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "tesseract",
				Subsystem: "directory",
				Name:      "reviews_submitted_total",
				Help:      "Total number of reviews submitted",
			},
		),
		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tesseract",
				Subsystem: "directory",
				Name:      "cache_requests_total",
				Help:      "Cache lookups by outcome",
			},
			[]string{"key", "outcome"},
		),
	}
}

// GinMiddleware records request counts and latency per route
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus scrape endpoint
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
