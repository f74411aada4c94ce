package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	pointsStored *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	fitsTotal    *prometheus.CounterVec
	triplesTotal *prometheus.CounterVec
	bestDepth    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		pointsStored: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transitscan_points_stored_total",
				Help: "Total number of photometry points sent to backend",
			},
			[]string{"backend", "target"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transitscan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		fitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transitscan_fits_total",
				Help: "Total grid-search fits by outcome",
			},
			[]string{"target", "outcome"},
		),
		triplesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transitscan_fit_triples_total",
				Help: "Total parameter triples evaluated by the grid search",
			},
			[]string{"target"},
		),
		bestDepth: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "transitscan_best_depth",
				Help: "Last best-fit transit depth for a target",
			},
			[]string{"target"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transitscan_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordPointStored records a photometry point sent to a backend.
func (r *Recorder) RecordPointStored(backend, target string) {
	r.pointsStored.WithLabelValues(backend, target).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordFit records one completed grid search and its evaluated triples.
func (r *Recorder) RecordFit(target string, found bool, evaluated int64) {
	outcome := "none"
	if found {
		outcome = "found"
	}
	r.fitsTotal.WithLabelValues(target, outcome).Inc()
	r.triplesTotal.WithLabelValues(target).Add(float64(evaluated))
}

// RecordBestDepth records the last best-fit depth for a target.
func (r *Recorder) RecordBestDepth(target string, depth float64) {
	r.bestDepth.WithLabelValues(target).Set(depth)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
