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

// Metrics holds the engine's Prometheus collectors. All methods are safe on a nil receiver
// so components can run without instrumentation.
type Metrics struct {
	registry           *prometheus.Registry
	punchesTotal       *prometheus.CounterVec
	ledgerTransactions *prometheus.CounterVec
	ledgerDuplicates   prometheus.Counter
	httpRequestsTotal  *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		punchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hourbank_punches_total",
			Help: "Punch attempts by kind and result (accepted, rejected, error).",
		}, []string{"kind", "result"}),
		ledgerTransactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hourbank_ledger_transactions_total",
			Help: "Hour bank transactions appended by direction (credit, debit).",
		}, []string{"direction"}),
		ledgerDuplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hourbank_ledger_duplicates_total",
			Help: "Attempts to close a day that already has a transaction.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.punchesTotal,
		m.ledgerTransactions,
		m.ledgerDuplicates,
		m.httpRequestsTotal,
		m.httpDuration,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) PunchRecorded(kind string, result string) {
	if m == nil {
		return
	}
	m.punchesTotal.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) LedgerTransaction(deltaMinutes int) {
	if m == nil {
		return
	}
	direction := "credit"
	if deltaMinutes < 0 {
		direction = "debit"
	}
	m.ledgerTransactions.WithLabelValues(direction).Inc()
}

func (m *Metrics) LedgerDuplicate() {
	if m == nil {
		return
	}
	m.ledgerDuplicates.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Middleware records request counts and durations labelled with the matched chi route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m == nil {
			return
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
