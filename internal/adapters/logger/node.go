package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/press/internal/adapters/livereload"
	"go.trai.ch/press/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{livereload.NodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			server, err := graft.Dep[ports.DevServer](ctx)
			if err != nil {
				return nil, err
			}
			return New(server), nil
		},
	})
}
