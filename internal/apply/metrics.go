package apply

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/minio-stack/internal/graph"
)

// Operation label values.
const (
	OperationApply   = "apply"
	OperationDestroy = "destroy"
)

// Metrics records per-node apply and destroy outcomes. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	retries    *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "minio_stack",
				Subsystem: "apply",
				Name:      "operations_total",
				Help:      "Total number of node operations by operation, kind and result",
			},
			[]string{"operation", "kind", "result"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "minio_stack",
				Subsystem: "apply",
				Name:      "retries_total",
				Help:      "Total number of retried node operations",
			},
			[]string{"operation", "kind"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "minio_stack",
				Subsystem: "apply",
				Name:      "operation_duration_seconds",
				Help:      "Duration of node operations in seconds, retries included",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
			},
			[]string{"operation", "kind"},
		),
	}
	m.registry.MustRegister(m.operations, m.retries, m.duration)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile writes the metrics in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) recordOperation(operation string, kind graph.Kind, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(operation, string(kind), result).Inc()
	m.duration.WithLabelValues(operation, string(kind)).Observe(d.Seconds())
}

func (m *Metrics) recordRetry(operation string, kind graph.Kind) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(operation, string(kind)).Inc()
}
