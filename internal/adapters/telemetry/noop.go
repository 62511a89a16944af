package telemetry

import (
	"context"
)

// NoopRecorder discards everything. Use this when metrics are disabled.
type NoopRecorder struct{}

// NewNoopRecorder creates a new no-op recorder.
func NewNoopRecorder() *NoopRecorder {
	return &NoopRecorder{}
}

// RecordOperation does nothing.
func (n *NoopRecorder) RecordOperation(ctx context.Context, info OperationInfo) {}

// Flush does nothing.
func (n *NoopRecorder) Flush(ctx context.Context) error {
	return nil
}

// Ensure NoopRecorder implements Recorder interface.
var _ Recorder = (*NoopRecorder)(nil)
