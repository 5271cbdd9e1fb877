package ports

import (
	"context"

	"go.trai.ch/offline/internal/core/domain"
)

//go:generate mockgen -source=lifecycle.go -destination=mocks/mock_lifecycle.go -package=mocks

// Lifecycle is the host side of the worker lifecycle, as seen by a worker.
type Lifecycle interface {
	// SkipWaiting asks the host to activate the worker of the given generation
	// without waiting for existing pages to close.
	SkipWaiting(ctx context.Context, generation domain.Generation) error

	// Claim makes the active worker of the given generation control open pages.
	Claim(ctx context.Context, generation domain.Generation) error
}

// Clients gives a worker access to application windows.
type Clients interface {
	// OpenWindow opens or focuses the application at url.
	OpenWindow(ctx context.Context, url string) error
}

// MessagePort carries a reply back to the sender of a message.
type MessagePort interface {
	// PostMessage delivers data to the other end of the port.
	PostMessage(data map[string]any) error
}
