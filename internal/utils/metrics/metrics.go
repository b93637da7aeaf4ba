// File: internal/utils/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "abk_auth_requests_total",
		Help: "The total number of HTTP requests by method and path",
	}, []string{"method", "path"})

	ResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "abk_auth_responses_total",
		Help: "The total number of HTTP responses by status code",
	}, []string{"status"})

	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "abk_auth_request_duration_seconds",
		Help:    "The request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "abk_auth_login_attempts_total",
		Help: "The total number of login attempts by outcome",
	}, []string{"status"})

	SyncsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "abk_auth_connection_syncs_total",
		Help: "The total number of connection syncs by provider and outcome",
	}, []string{"provider", "status"})

	OAuthCallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "abk_auth_oauth_callbacks_total",
		Help: "The total number of OAuth callbacks by provider and outcome",
	}, []string{"provider", "status"})
)
