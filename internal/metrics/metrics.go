package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "checkit_dashboard"

var (
	metricsOnce sync.Once

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	navigationRenders   prometheus.Counter
	navigationToggles   *prometheus.CounterVec
	navigationReloads   *prometheus.CounterVec
	navigationEntries   prometheus.Gauge
	toggleSessions      prometheus.Gauge
	jobRunsTotal        *prometheus.CounterVec
	jobDurationSeconds  *prometheus.HistogramVec
	jobLastSuccess      *prometheus.GaugeVec
)

func Init() {
	metricsOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"})

		httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"})

		navigationRenders = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "navigation",
			Name:      "renders_total",
			Help:      "Total navigation tree renders",
		})

		navigationToggles = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "navigation",
			Name:      "toggles_total",
			Help:      "Total navigation group toggles by resulting state",
		}, []string{"state"})

		navigationReloads = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "navigation",
			Name:      "reloads_total",
			Help:      "Total navigation configuration reloads by status",
		}, []string{"status"})

		navigationEntries = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "navigation",
			Name:      "links",
			Help:      "Number of navigable links in the active configuration",
		})

		toggleSessions = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "navigation",
			Name:      "toggle_sessions",
			Help:      "Sessions with stored navigation state in the memory store",
		})

		jobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "background",
			Name:      "job_runs_total",
			Help:      "Total background job executions",
		}, []string{"job", "status"})

		jobDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "background",
			Name:      "job_duration_seconds",
			Help:      "Duration of background job executions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"})

		jobLastSuccess = promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "background",
			Name:      "job_last_success_timestamp",
			Help:      "Unix timestamp of the last successful background job execution",
		}, []string{"job"})
	})
}

func ObserveRequest(method, route, status string, seconds float64) {
	Init()
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func NavigationRendered() {
	Init()
	navigationRenders.Inc()
}

func NavigationToggled(open bool) {
	Init()
	state := "closed"
	if open {
		state = "open"
	}
	navigationToggles.WithLabelValues(state).Inc()
}

func NavigationReloaded(err error) {
	Init()
	status := "success"
	if err != nil {
		status = "failure"
	}
	navigationReloads.WithLabelValues(status).Inc()
}

func SetNavigationLinks(count int) {
	Init()
	navigationEntries.Set(float64(count))
}

func SetToggleSessions(count int) {
	Init()
	toggleSessions.Set(float64(count))
}

func ObserveJob(name, status string, seconds float64) {
	Init()
	jobRunsTotal.WithLabelValues(name, status).Inc()
	jobDurationSeconds.WithLabelValues(name).Observe(seconds)
	if status == "success" {
		jobLastSuccess.WithLabelValues(name).SetToCurrentTime()
	}
}
