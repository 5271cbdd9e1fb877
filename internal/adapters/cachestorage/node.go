package cachestorage

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/offline/internal/adapters/logger"
	"go.trai.ch/offline/internal/core/ports"
)

// NodeID is the unique identifier for the cache storage opener Graft node.
const NodeID graft.ID = "adapter.cache_storage"

func init() {
	graft.Register(graft.Node[ports.StorageOpener]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.StorageOpener, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewOpener(log), nil
		},
	})
}
