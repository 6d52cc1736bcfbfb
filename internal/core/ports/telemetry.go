package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer opens one span per pipeline task run.
type Tracer interface {
	// Start opens the span of task name. The returned context carries it as parent.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan announces the tasks of a run, in execution order, before any starts.
	EmitPlan(ctx context.Context, taskNames []string, deps map[string][]string, targets []string)
}

// Span is a running task. Bytes written to it are the task's output.
type Span interface {
	io.Writer
	End()
	// RecordError marks the task failed with err.
	RecordError(err error)
	SetAttribute(key string, value any)
}

// SpanConfig is assembled from the SpanOptions passed to Start.
type SpanConfig struct {
	// Component is the display name attached to the span, if any.
	Component string
}

// SpanOption configures a span at Start.
type SpanOption func(*SpanConfig)

// WithComponent tags the span with a display component.
func WithComponent(name string) SpanOption {
	return func(c *SpanConfig) {
		c.Component = name
	}
}
