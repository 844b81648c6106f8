package hcloud

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	apiCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nodeforge",
			Subsystem: "hcloud",
			Name:      "api_calls_total",
			Help:      "Total number of Hetzner Cloud API calls by operation and result",
		},
		[]string{"operation", "result"},
	)

	apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nodeforge",
			Subsystem: "hcloud",
			Name:      "api_latency_seconds",
			Help:      "Latency of Hetzner Cloud API calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 8), // 100ms to ~25s
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(apiCallsTotal, apiLatency)
}

// observe records one API call. Use as: defer observe("op", time.Now(), &err).
func observe(operation string, start time.Time, err *error) {
	result := "success"
	if err != nil && *err != nil {
		result = "error"
	}
	apiCallsTotal.WithLabelValues(operation, result).Inc()
	apiLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
