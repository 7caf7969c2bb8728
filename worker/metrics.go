package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for batch validation.
type Metrics struct {
	recordsValidated *prometheus.CounterVec
	batchesTotal     prometheus.Counter
	batchDuration    prometheus.Histogram
	batchSize        prometheus.Histogram
}

// NewMetrics creates batch metrics registered on the given registerer.
// A nil registerer uses the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		recordsValidated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kormarc_batch_records_validated_total",
				Help: "Total number of records processed by batch validation",
			},
			[]string{"result"},
		),

		batchesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "kormarc_batch_runs_total",
				Help: "Total number of batch validation runs",
			},
		),

		batchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kormarc_batch_duration_seconds",
				Help:    "Duration of batch validation runs in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to 16s
			},
		),

		batchSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kormarc_batch_size_records",
				Help:    "Number of rows per batch validation run",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10), // 1 to 262144
			},
		),
	}
}

// RecordBatch records the outcome of one batch run.
func (m *Metrics) RecordBatch(batch *BatchResult) {
	m.batchesTotal.Inc()
	m.batchDuration.Observe(batch.Duration.Seconds())
	m.batchSize.Observe(float64(batch.TotalRows))

	for _, jr := range batch.Results {
		result := "failed"
		if jr.Passed() {
			result = "passed"
		}
		m.recordsValidated.WithLabelValues(result).Inc()
	}
	if batch.Skipped > 0 {
		m.recordsValidated.WithLabelValues("skipped").Add(float64(batch.Skipped))
	}
}
