package clients

import (
	"context"
	"io"

	"github.com/grindlemire/graft"
	"github.com/pkg/browser"
	"go.trai.ch/offline/internal/adapters/logger"
	"go.trai.ch/offline/internal/core/ports"
)

// NodeID is the unique identifier for the clients Graft node.
const NodeID graft.ID = "adapter.clients"

func init() {
	graft.Register(graft.Node[*Clients]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Clients, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			// The browser launcher writes its own output otherwise.
			browser.Stdout = io.Discard
			browser.Stderr = io.Discard
			return New(log), nil
		},
	})
}
