package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/offline/internal/ui/output"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			l := New().(*Logger)
			l.SetJSON(!output.IsTerminal(os.Stderr))
			return l, nil
		},
	})
}
