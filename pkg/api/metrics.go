package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pokerbots",
	Subsystem: "api",
	Name:      "requests_total",
	Help:      "The total number of platform API requests",
}, []string{"endpoint", "code"})

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "pokerbots",
	Subsystem: "api",
	Name:      "request_duration_seconds",
	Help:      "The platform API request latencies in seconds",
	Buckets:   prometheus.DefBuckets,
}, []string{"endpoint"})

func observe(endpoint, code string, start time.Time) {
	requestCounter.WithLabelValues(endpoint, code).Inc()
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
