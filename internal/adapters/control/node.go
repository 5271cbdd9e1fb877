package control

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/offline/internal/core/ports"
)

// NodeID is the unique identifier for the control dialer Graft node.
const NodeID graft.ID = "adapter.control"

func init() {
	graft.Register(graft.Node[ports.ControlDialer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ControlDialer, error) {
			return NewDialer(), nil
		},
	})
}
