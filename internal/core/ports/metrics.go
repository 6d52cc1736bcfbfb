package ports

import (
	"time"

	"go.trai.ch/press/internal/core/domain"
)

// Metrics records pipeline and server measurements.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	ObserveTask(name string, d time.Duration, status domain.TaskStatus)
	IncReload(kind string)
	IncNotify()
	SetClients(n int)
}
