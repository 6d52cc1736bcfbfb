package livereload

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/press/internal/adapters/metrics"
	"go.trai.ch/press/internal/core/ports"
)

// NodeID is the unique identifier for the live-reload server Graft node.
const NodeID graft.ID = "adapter.livereload"

func init() {
	graft.Register(graft.Node[ports.DevServer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{metrics.NodeID},
		Run: func(ctx context.Context) (ports.DevServer, error) {
			m, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}
			return NewServer(m), nil
		},
	})
}
