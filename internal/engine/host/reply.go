package host

import (
	"maps"
	"sync"

	"go.trai.ch/offline/internal/core/ports"
)

var _ ports.MessagePort = (*Reply)(nil)

// Reply is a message port that keeps the last message a worker posted to it.
type Reply struct {
	mu     sync.Mutex
	data   map[string]any
	posted bool
}

// PostMessage records data.
func (r *Reply) PostMessage(data map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = maps.Clone(data)
	r.posted = true
	return nil
}

// Data returns the posted message and whether one was posted.
func (r *Reply) Data() (map[string]any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.data), r.posted
}
