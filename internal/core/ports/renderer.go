package ports

import (
	"context"
	"time"
)

// Renderer prints the lifecycle of a pipeline run: the plan, each task's start,
// output and outcome. Span ids tie the calls of one task run together.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start is called before a run, Stop after it. Stop flushes partial output lines.
	Start(ctx context.Context) error
	Stop() error
	// Wait blocks until everything passed to the renderer has been written.
	Wait() error

	OnPlanEmit(tasks []string, deps map[string][]string, targets []string)
	OnTaskStart(spanID, parentID, name string, startTime time.Time)
	// OnTaskLog receives raw output; it need not end on a line boundary.
	OnTaskLog(spanID string, data []byte)
	// OnTaskComplete ends a task run. A nil err means it succeeded.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
