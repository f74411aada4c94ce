package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	FitLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "transitscan",
			Subsystem: "fit",
			Name:      "latency_seconds",
			Help:      "Latency of fit endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	FitErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "transitscan",
			Subsystem: "fit",
			Name:      "errors_total",
			Help:      "Errors by fit endpoint",
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(FitLatency, FitErrors)
	})
}
