package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	leaveDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_leave_decisions_total",
		Help: "Count of leave request review decisions",
	}, []string{"decision"})

	leaveSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_leave_submissions_total",
		Help: "Count of leave request submissions by outcome",
	}, []string{"result"})
)

func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func ObserveLeaveDecision(decision string) {
	leaveDecisions.WithLabelValues(decision).Inc()
}

func ObserveLeaveSubmission(result string) {
	leaveSubmissions.WithLabelValues(result).Inc()
}
