// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AI responder
	AIResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_ai_responses_total",
			Help: "Responses produced by the AI responder by role and kind (primary or fallback)",
		},
		[]string{"role", "kind"},
	)

	AIFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_ai_failures_total",
			Help: "Failed or skipped AI capability calls by error class",
		},
		[]string{"class"},
	)

	AIRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_ai_request_duration_seconds",
			Help:    "Duration of AI capability calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "folio_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Domain
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_recommendations_total",
			Help: "Recommendation requests served by category",
		},
		[]string{"category"},
	)

	PageViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_page_views_total",
			Help: "Page views recorded by the view counter",
		},
	)
)

// RecordAPIRequest records one finished HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAIResponse counts one responder result.
func RecordAIResponse(role, kind string) {
	AIResponses.WithLabelValues(role, kind).Inc()
}

// RecordAIFailure counts one capability failure of the given class.
func RecordAIFailure(class string) {
	if class == "" {
		class = "other"
	}
	AIFailures.WithLabelValues(class).Inc()
}
