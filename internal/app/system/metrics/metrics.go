package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terragon_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "terragon_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	supervisorState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "terragon_supervisor_state",
		Help: "1 for the connection supervisor's current state, 0 for the others",
	}, []string{"state"})

	provisionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "terragon_provision_duration_seconds",
		Help:    "Duration of datastore session provisioning attempts",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})

	livenessFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terragon_liveness_failures_total",
		Help: "Count of liveness evaluations that tore the session down",
	})

	workflows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terragon_workflows_total",
		Help: "Count of onboarding workflows by name and result",
	}, []string{"workflow", "result"})
)

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// SetSupervisorState marks current as the only active state among all.
func SetSupervisorState(current string, all []string) {
	for _, s := range all {
		v := 0.0
		if s == current {
			v = 1
		}
		supervisorState.WithLabelValues(s).Set(v)
	}
}

// ObserveProvision records a provisioning attempt with a result label.
func ObserveProvision(result string, duration time.Duration) {
	provisionDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// IncLivenessFailure counts a failed liveness evaluation.
func IncLivenessFailure() {
	livenessFailures.Inc()
}

// ObserveWorkflow counts one onboarding workflow outcome.
func ObserveWorkflow(workflow, result string) {
	workflows.WithLabelValues(workflow, result).Inc()
}
