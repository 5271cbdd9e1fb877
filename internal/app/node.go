package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/offline/internal/adapters/cachestorage" //nolint:depguard // Wired in app layer
	"go.trai.ch/offline/internal/adapters/clients"      //nolint:depguard // Wired in app layer
	"go.trai.ch/offline/internal/adapters/config"       //nolint:depguard // Wired in app layer
	"go.trai.ch/offline/internal/adapters/control"      //nolint:depguard // Wired in app layer
	"go.trai.ch/offline/internal/adapters/logger"       //nolint:depguard // Wired in app layer
	"go.trai.ch/offline/internal/adapters/notifier"     //nolint:depguard // Wired in app layer
	"go.trai.ch/offline/internal/adapters/telemetry"    //nolint:depguard // Wired in app layer
	"go.trai.ch/offline/internal/adapters/watcher"      //nolint:depguard // Wired in app layer
	"go.trai.ch/offline/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			cachestorage.NodeID,
			clients.NodeID,
			notifier.NodeID,
			watcher.NodeID,
			control.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

//nolint:cyclop // one lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	opener, err := graft.Dep[ports.StorageOpener](ctx)
	if err != nil {
		return nil, err
	}

	cl, err := graft.Dep[*clients.Clients](ctx)
	if err != nil {
		return nil, err
	}

	n, err := graft.Dep[ports.Notifier](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	dialer, err := graft.Dep[ports.ControlDialer](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, opener, cl, n, w, dialer, tracer, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
	}, nil
}
