// internal/app/system/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/storyhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for domain counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeLimited = "rate_limited"
)

// Metrics holds the application's collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	uploads       *prometheus.CounterVec
	uploadBytes   prometheus.Counter
	deletions     prometheus.Counter
	sweptFiles    prometheus.Counter
}

// New registers all collectors, plus Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,

		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "storyhub_http_requests_total",
			Help: "HTTP requests by route pattern, method and status code",
		}, []string{"route", "method", "status"}),

		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storyhub_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and method",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"route", "method"}),

		registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "storyhub_registrations_total",
			Help: "Accounts registered by role",
		}, []string{"role"}),

		logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "storyhub_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),

		uploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "storyhub_uploads_total",
			Help: "Story uploads by media type and outcome",
		}, []string{"media_type", "outcome"}),

		uploadBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "storyhub_upload_bytes_total",
			Help: "Bytes of media accepted",
		}),

		deletions: f.NewCounter(prometheus.CounterOpts{
			Name: "storyhub_story_deletions_total",
			Help: "Stories deleted",
		}),

		sweptFiles: f.NewCounter(prometheus.CounterOpts{
			Name: "storyhub_orphan_files_removed_total",
			Help: "Unreferenced media files removed by the sweeper",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Middleware records request count and latency under the matched chi route
// pattern, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Registered(role string) {
	if m != nil {
		m.registrations.WithLabelValues(role).Inc()
	}
}

func (m *Metrics) Login(outcome string) {
	if m != nil {
		m.logins.WithLabelValues(outcome).Inc()
	}
}

// Upload records an upload attempt; size is counted only on success.
func (m *Metrics) Upload(mediaType, outcome string, size int64) {
	if m == nil {
		return
	}
	// Client input; keep the label set bounded.
	if !models.IsValidMediaType(mediaType) {
		mediaType = "unknown"
	}
	m.uploads.WithLabelValues(mediaType, outcome).Inc()
	if outcome == OutcomeSuccess && size > 0 {
		m.uploadBytes.Add(float64(size))
	}
}

func (m *Metrics) Deleted() {
	if m != nil {
		m.deletions.Inc()
	}
}

func (m *Metrics) Swept(n int) {
	if m != nil && n > 0 {
		m.sweptFiles.Add(float64(n))
	}
}
