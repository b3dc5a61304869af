// Package metrics provides Prometheus instrumentation for orderdesk.
//
// HTTP metrics are recorded by Middleware; the order and report collectors
// are fed by app/services. Everything is registered on DefaultRegistry and
// exposed by Handler on GET /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orderdesk"

// ─────────────────────────────────────────────
// HTTP
// ─────────────────────────────────────────────

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})
)

// ─────────────────────────────────────────────
// Orders, reports, cache
// ─────────────────────────────────────────────

var (
	// OrdersPlaced counts committed orders.
	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Orders committed.",
	})

	// OrdersRejected counts failed placements by reason:
	// "invalid_input" | "insufficient_stock" | "transaction_failed".
	OrdersRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "rejected_total",
			Help:      "Order placements that did not commit.",
		},
		[]string{"reason"},
	)

	// OrderCommitDuration is the wall time of the placement transaction.
	OrderCommitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "commit_duration_seconds",
		Help:      "Duration of the order placement transaction.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5},
	})

	// QueryDuration tracks read-side query latency.
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Duration of database queries in seconds.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
		},
		[]string{"query"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total cache hits.",
		},
		[]string{"driver"},
	)
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total cache misses.",
		},
		[]string{"driver"},
	)

	// PanicsRecovered counts handler panics turned into 500 responses.
	PanicsRecovered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "panics_recovered_total",
			Help:      "Handler panics recovered by the HTTP stack.",
		},
		[]string{"route"},
	)

	// AuditDropped counts audit entries that could not be delivered.
	AuditDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "audit",
		Name:      "dropped_total",
		Help:      "Audit entries dropped because the sink failed or was saturated.",
	})
)

// DefaultRegistry is the Prometheus registry served on /metrics.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		OrdersPlaced,
		OrdersRejected,
		OrderCommitDuration,
		QueryDuration,
		CacheHits,
		CacheMisses,
		AuditDropped,
		PanicsRecovered,
	)
}

// ─────────────────────────────────────────────
// HTTP middleware
// ─────────────────────────────────────────────

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records duration, count and in-flight requests. Requests are
// labelled by chi route pattern so ids in paths do not explode cardinality.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			route := Route(r)
			status := strconv.Itoa(rr.status)

			RequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, route, status).Inc()
		})
	}
}

// Route returns the chi route pattern matched for r, or the raw path when
// nothing matched yet.
func Route(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// Handler exposes DefaultRegistry.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}

// ─────────────────────────────────────────────
// Helpers for app code
// ─────────────────────────────────────────────

// ObserveQuery records a read query duration:
//
//	defer metrics.ObserveQuery("dashboard", time.Now())
func ObserveQuery(query string, start time.Time) {
	QueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

// ObserveCommit records a placement outcome. reason is empty on success.
func ObserveCommit(reason string, start time.Time) {
	OrderCommitDuration.Observe(time.Since(start).Seconds())
	if reason == "" {
		OrdersPlaced.Inc()
		return
	}
	OrdersRejected.WithLabelValues(reason).Inc()
}
