package transform

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/adapters/livereload"
	"go.trai.ch/press/internal/adapters/logger"
	"go.trai.ch/press/internal/core/ports"
)

// NodeID is the unique identifier for the transformer set Graft node.
const NodeID graft.ID = "adapter.transform"

func init() {
	graft.Register(graft.Node[[]ports.Transformer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, livereload.NodeID, fs.ResolverNodeID, fs.WriterNodeID},
		Run: func(ctx context.Context) ([]ports.Transformer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			server, err := graft.Dep[ports.DevServer](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}
			writer, err := graft.Dep[*fs.Writer](ctx)
			if err != nil {
				return nil, err
			}
			return All(log, server, resolver, writer), nil
		},
	})
}
