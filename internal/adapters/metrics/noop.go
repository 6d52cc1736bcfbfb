package metrics

import (
	"time"

	"go.trai.ch/press/internal/core/domain"
)

// NoopRecorder discards every measurement.
type NoopRecorder struct{}

// NewNoopRecorder creates a NoopRecorder.
func NewNoopRecorder() *NoopRecorder {
	return &NoopRecorder{}
}

func (NoopRecorder) ObserveTask(string, time.Duration, domain.TaskStatus) {}
func (NoopRecorder) IncReload(string)                                     {}
func (NoopRecorder) IncNotify()                                           {}
func (NoopRecorder) SetClients(int)                                       {}
