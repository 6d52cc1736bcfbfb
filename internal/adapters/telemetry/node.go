package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/press/internal/adapters/linear" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/press/internal/core/ports"
)

// TracerNodeID is the unique identifier for the telemetry Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{linear.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			renderer, err := graft.Dep[ports.Renderer](ctx)
			if err != nil {
				return nil, err
			}
			return NewOTelTracer(renderer), nil
		},
	})
}
