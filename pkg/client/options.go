package client

import (
	"log/slog"

	"github.com/satishbabariya/dynquery/internal/adapters/telemetry"
)

// Recorder receives one record per completed operation.
type Recorder = telemetry.Recorder

// options holds what callers may override. Zero values mean defaults: the
// debug logger, a per-call catalog resolver and a no-op recorder.
type options struct {
	logger   *slog.Logger
	resolver FieldResolver
	recorder Recorder
}

// Option is a function that configures a Store or Client.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithResolver replaces the catalog resolver.
func WithResolver(resolver FieldResolver) Option {
	return func(o *options) {
		o.resolver = resolver
	}
}

// WithRecorder sets the telemetry recorder.
func WithRecorder(recorder Recorder) Option {
	return func(o *options) {
		o.recorder = recorder
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.recorder == nil {
		o.recorder = telemetry.NewNoopRecorder()
	}
	return o
}
