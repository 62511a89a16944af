// Package telemetry records per-operation outcomes.
package telemetry

import (
	"context"
	"fmt"
	"time"
)

// Recorder defines the telemetry adapter interface.
type Recorder interface {
	// RecordOperation records one completed operation, successful or not.
	RecordOperation(ctx context.Context, info OperationInfo)

	// Flush writes buffered data, if the recorder has a sink.
	Flush(ctx context.Context) error
}

// OperationInfo describes a completed operation.
type OperationInfo struct {
	// Operation is the entrypoint name (select, insert, aggregate, ...).
	Operation string

	// Table is the target table.
	Table string

	// Duration is how long the operation took.
	Duration time.Duration

	// Err is the failure, nil on success.
	Err error

	// Kind classifies Err (connection, build, execution).
	Kind string

	// RowsAffected is the row count returned or written.
	RowsAffected int64
}

// Success reports whether the operation completed without error.
func (i OperationInfo) Success() bool {
	return i.Err == nil
}

// Config holds telemetry configuration.
type Config struct {
	// Enabled switches from the no-op recorder to Prometheus.
	Enabled bool

	// Namespace prefixes every metric name.
	Namespace string

	// Textfile, if set, is where Flush writes the exposition text.
	Textfile string
}

// NewRecorder creates a recorder based on configuration.
func NewRecorder(cfg Config) (Recorder, error) {
	if !cfg.Enabled {
		return NewNoopRecorder(), nil
	}
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("metrics namespace is required")
	}
	return NewPrometheusRecorder(cfg, nil), nil
}
