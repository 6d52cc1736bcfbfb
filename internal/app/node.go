package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/press/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"go.trai.ch/press/internal/adapters/fs"         //nolint:depguard // Wired in app layer
	"go.trai.ch/press/internal/adapters/generator"  //nolint:depguard // Wired in app layer
	"go.trai.ch/press/internal/adapters/linear"     //nolint:depguard // Wired in app layer
	"go.trai.ch/press/internal/adapters/livereload" //nolint:depguard // Wired in app layer
	"go.trai.ch/press/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"go.trai.ch/press/internal/adapters/transform"  //nolint:depguard // Wired in app layer
	"go.trai.ch/press/internal/adapters/watcher"    //nolint:depguard // Wired in app layer
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/press/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components the CLI needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			scheduler.NodeID,
			linear.NodeID,
			fs.CleanerNodeID,
			transform.NodeID,
			generator.NodeID,
			livereload.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	configs, err := graft.Dep[ports.ConfigResolver](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	cleaner, err := graft.Dep[ports.Cleaner](ctx)
	if err != nil {
		return nil, err
	}

	transformers, err := graft.Dep[[]ports.Transformer](ctx)
	if err != nil {
		return nil, err
	}

	gen, err := graft.Dep[ports.Generator](ctx)
	if err != nil {
		return nil, err
	}

	server, err := graft.Dep[ports.DevServer](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(configs, log, sched, renderer, cleaner, transformers, gen, server, w), nil
}
