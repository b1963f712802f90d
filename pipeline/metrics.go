package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation outcome labels.
const (
	outcomeOK = "ok"
)

// metrics holds the pipeline counters. They are registered on a private
// registry so embedding programs decide whether to expose them.
type metrics struct {
	registry *prometheus.Registry

	OperationsTotal   *prometheus.CounterVec
	StatementsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),

		OperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rio_operations_total",
			Help: "Total number of pipeline operations by outcome",
		}, []string{"op", "format", "outcome"}),

		StatementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rio_statements_total",
			Help: "Total number of statements delivered by pipeline operations",
		}, []string{"op", "format"}),

		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rio_operation_duration_seconds",
			Help:    "Duration of pipeline operations",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"op", "format"}),
	}
	m.registry.MustRegister(m.OperationsTotal, m.StatementsTotal, m.OperationDuration)
	return m
}

func (m *metrics) record(op, format, outcome string, statements int, duration time.Duration) {
	m.OperationsTotal.WithLabelValues(op, format, outcome).Inc()
	if statements > 0 {
		m.StatementsTotal.WithLabelValues(op, format).Add(float64(statements))
	}
	m.OperationDuration.WithLabelValues(op, format).Observe(duration.Seconds())
}

var pipelineMetrics = newMetrics()

// MetricsGatherer exposes the pipeline metrics.
func MetricsGatherer() prometheus.Gatherer { return pipelineMetrics.registry }
