// Package metrics exposes Prometheus instrumentation for the daybook server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all registered collectors. A single instance is created at
// startup and injected where needed, keeping registration testable.
type Metrics struct {
	registry *prometheus.Registry

	NotesCreated prometheus.Counter
	NotesDeleted prometheus.Counter
	NotesListed  prometheus.Counter

	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		NotesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "daybook_notes_created_total",
			Help: "Total number of notes created",
		}),
		NotesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "daybook_notes_deleted_total",
			Help: "Total number of notes deleted",
		}),
		NotesListed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "daybook_note_list_requests_total",
			Help: "Total number of note list requests",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "daybook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	m.registry.MustRegister(
		m.NotesCreated,
		m.NotesDeleted,
		m.NotesListed,
		m.RequestDuration,
	)

	return m
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// statusRecorder captures the response status for the duration histogram.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// InstrumentHandler records request durations labeled by method, route
// pattern, and status. The pattern, not the raw path, keeps cardinality
// bounded.
func (m *Metrics) InstrumentHandler(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.RequestDuration.
			WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}
