package ports

import (
	"context"

	"go.trai.ch/offline/internal/core/domain"
)

// Worker is the set of handlers a host drives through the lifecycle.
//
//go:generate mockgen -source=worker.go -destination=mocks/mock_worker.go -package=mocks
type Worker interface {
	// Generation returns the cache generation the worker owns.
	Generation() domain.Generation

	// Install populates the worker's generation.
	Install(ctx context.Context) error

	// Activate evicts every other generation and claims open pages.
	Activate(ctx context.Context) error

	// Fetch answers an intercepted request.
	// Returns nil, nil when the worker declines the request.
	Fetch(ctx context.Context, req *domain.Request) (*domain.FetchResult, error)

	// Message handles a page message, replying on port when applicable.
	Message(ctx context.Context, msg domain.Message, port MessagePort) error

	// Push handles a push payload.
	Push(ctx context.Context, payload []byte) error

	// NotificationClick handles a click on a notification.
	NotificationClick(ctx context.Context, click domain.NotificationClick) error

	// Wait blocks until background work started by Fetch has finished.
	Wait()
}
