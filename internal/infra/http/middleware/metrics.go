package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
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

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadMoves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_lead_moves_total",
			Help: "Total number of stage move attempts by outcome",
		},
		[]string{"board", "to_stage", "outcome"},
	)

	collectorOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_collector_outcomes_total",
			Help: "Total number of collector confirmations and cancellations",
		},
		[]string{"collector", "outcome"},
	)

	leadsCaptured = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_leads_captured_total",
			Help: "Total number of leads captured through public intake",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordMove(board, toStage, outcome string) {
	leadMoves.WithLabelValues(board, toStage, outcome).Inc()
}

func RecordCollectorOutcome(collector, outcome string) {
	collectorOutcomes.WithLabelValues(collector, outcome).Inc()
}

func RecordLeadCaptured() {
	leadsCaptured.Inc()
}
