// Package metrics provides Prometheus metrics for the onboarding wizard.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/finatech/onboard/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StepSubmissionsTotal tracks step submissions by outcome
	StepSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onboard",
			Subsystem: "wizard",
			Name:      "submissions_total",
			Help:      "Total number of step submissions by outcome",
		},
		[]string{"step", "outcome"},
	)

	// StepSubmissionDuration tracks step submission duration in seconds
	StepSubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "onboard",
			Subsystem: "wizard",
			Name:      "submission_duration_seconds",
			Help:      "Duration of step submissions in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"step"},
	)

	// ValidationFailuresTotal tracks rejected advance attempts
	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onboard",
			Subsystem: "wizard",
			Name:      "validation_failures_total",
			Help:      "Total number of advance attempts rejected by validation",
		},
		[]string{"step"},
	)

	// CompletedTotal tracks sessions that reached the completed step
	CompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "onboard",
			Subsystem: "wizard",
			Name:      "completed_total",
			Help:      "Total number of onboarding sessions completed",
		},
	)

	// LookupsTotal tracks catalog, postal and installment lookups
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onboard",
			Subsystem: "lookup",
			Name:      "requests_total",
			Help:      "Total number of lookups by kind and status",
		},
		[]string{"kind", "status"},
	)

	// StaleLookupsTotal tracks lookup responses discarded as superseded
	StaleLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onboard",
			Subsystem: "lookup",
			Name:      "stale_total",
			Help:      "Total number of lookup responses discarded because a newer request was issued",
		},
		[]string{"kind"},
	)

	// HTTPRequestsTotal tracks outbound HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onboard",
			Subsystem: "http_client",
			Name:      "requests_total",
			Help:      "Total number of outbound HTTP requests",
		},
		[]string{"method", "status_code"},
	)

	// HTTPRequestDuration tracks outbound HTTP request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "onboard",
			Subsystem: "http_client",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound HTTP requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)
)

// RecordSubmission records a step submission metric
func RecordSubmission(step int, outcome string, duration time.Duration) {
	label := strconv.Itoa(step + 1)
	StepSubmissionsTotal.WithLabelValues(label, outcome).Inc()
	StepSubmissionDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordValidationFailure records an advance rejected by validation
func RecordValidationFailure(step int) {
	ValidationFailuresTotal.WithLabelValues(strconv.Itoa(step + 1)).Inc()
}

// RecordLookup records a lookup metric
func RecordLookup(kind string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	LookupsTotal.WithLabelValues(kind, status).Inc()
}

// RecordStaleLookup records a discarded lookup response
func RecordStaleLookup(kind string) {
	StaleLookupsTotal.WithLabelValues(kind).Inc()
}

// RecordHTTPRequest records an outbound HTTP request metric
func RecordHTTPRequest(method, statusCode string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method).Observe(durationSeconds)
}

// Server exposes the default registry on /metrics.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
}

// Serve starts a metrics endpoint on addr. It returns once the listener is bound.
func Serve(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	s := &Server{
		httpServer: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		listener:   ln,
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server: %v", err)
		}
	}()
	return s, nil
}

// Addr is the bound listen address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Shutdown stops the endpoint.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
