package generator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/press/internal/adapters/livereload"
	"go.trai.ch/press/internal/adapters/logger"
	"go.trai.ch/press/internal/core/ports"
)

// NodeID is the unique identifier for the generator Graft node.
const NodeID graft.ID = "adapter.generator"

func init() {
	graft.Register(graft.Node[ports.Generator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, livereload.NodeID},
		Run: func(ctx context.Context) (ports.Generator, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			server, err := graft.Dep[ports.DevServer](ctx)
			if err != nil {
				return nil, err
			}
			return NewInvoker(log, server), nil
		},
	})
}
