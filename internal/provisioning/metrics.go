package provisioning

import "github.com/prometheus/client_golang/prometheus"

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nodeforge",
			Subsystem: "provisioning",
			Name:      "runs_total",
			Help:      "Total number of provisioning runs by result",
		},
		[]string{"result"},
	)

	runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nodeforge",
			Subsystem: "provisioning",
			Name:      "run_duration_seconds",
			Help:      "Duration of provisioning runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~68min
		},
	)

	pollAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nodeforge",
			Subsystem: "provisioning",
			Name:      "poll_attempts",
			Help:      "Number of status checks until a server left the building state",
			Buckets:   prometheus.LinearBuckets(0, 2, 11),
		},
	)

	rollbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nodeforge",
			Subsystem: "provisioning",
			Name:      "rollbacks_total",
			Help:      "Total number of rollbacks by result",
		},
		[]string{"result"},
	)

	recorderFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nodeforge",
			Subsystem: "provisioning",
			Name:      "recorder_failures_total",
			Help:      "Total number of progress notes a sink failed to store",
		},
	)
)

func init() {
	prometheus.MustRegister(
		runsTotal,
		runDuration,
		pollAttempts,
		rollbacksTotal,
		recorderFailuresTotal,
	)
}

// recordRunMetric records the outcome of a run. result is an error kind.
func recordRunMetric(result string, seconds float64) {
	if result == KindNone {
		result = "success"
	}
	runsTotal.WithLabelValues(result).Inc()
	runDuration.Observe(seconds)
}

func recordPollMetric(attempts int) {
	pollAttempts.Observe(float64(attempts))
}

func recordRollbackMetric(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	rollbacksTotal.WithLabelValues(result).Inc()
}

func recordRecorderFailure() {
	recorderFailuresTotal.Inc()
}
