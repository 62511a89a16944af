package telemetry

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// PrometheusRecorder implements Recorder using Prometheus collectors held in
// its own registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry
	textfile string

	operationsTotal   *prometheus.CounterVec
	failuresTotal     *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	rowsTotal         *prometheus.CounterVec
}

// NewPrometheusRecorder creates a recorder. A nil registry gets a fresh one.
func NewPrometheusRecorder(cfg Config, registry *prometheus.Registry) *PrometheusRecorder {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	factory := promauto.With(registry)

	return &PrometheusRecorder{
		registry: registry,
		textfile: cfg.Textfile,
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "operations_total",
				Help:      "Total number of query operations",
			},
			[]string{"operation", "status"},
		),
		failuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "operation_failures_total",
				Help:      "Failed query operations by failure kind",
			},
			[]string{"operation", "kind"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "operation_duration_seconds",
				Help:      "Query operation latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		rowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rows_total",
				Help:      "Rows returned or written by query operations",
			},
			[]string{"operation"},
		),
	}
}

// RecordOperation records one completed operation.
func (p *PrometheusRecorder) RecordOperation(ctx context.Context, info OperationInfo) {
	status := StatusSuccess
	if !info.Success() {
		status = StatusError
		kind := info.Kind
		if kind == "" {
			kind = "unknown"
		}
		p.failuresTotal.WithLabelValues(info.Operation, kind).Inc()
	}

	p.operationsTotal.WithLabelValues(info.Operation, status).Inc()
	p.operationDuration.WithLabelValues(info.Operation).Observe(info.Duration.Seconds())
	if info.RowsAffected > 0 {
		p.rowsTotal.WithLabelValues(info.Operation).Add(float64(info.RowsAffected))
	}
}

// Registry returns the registry the collectors live in.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

// Flush writes the registry to the textfile, for pickup by node_exporter's
// textfile collector. Without a textfile it does nothing.
func (p *PrometheusRecorder) Flush(ctx context.Context) error {
	if p.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(p.textfile, p.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// Ensure PrometheusRecorder implements Recorder interface.
var _ Recorder = (*PrometheusRecorder)(nil)
