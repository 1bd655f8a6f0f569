package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yungbote/peerpath/internal/platform/apierr"
)

var (
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peerpath_recommend_requests_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "peerpath_recommend_stage_duration_seconds",
			Help:    "Duration of each recommendation pipeline stage",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"stage"},
	)

	AlumniPopulation = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "peerpath_alumni_population",
			Help:    "Usable alumni rows per recommendation",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peerpath_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "peerpath_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)
)

func ObserveStage(stage string, start time.Time) {
	RecommendStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Outcome buckets an error into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apierr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apierr.ErrEmptyResult):
		return "empty"
	case errors.Is(err, apierr.ErrConfiguration):
		return "invalid_population"
	case errors.Is(err, apierr.ErrUpstreamUnavailable):
		return "upstream_unavailable"
	default:
		return "error"
	}
}
