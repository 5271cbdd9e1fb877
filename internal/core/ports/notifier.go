package ports

import (
	"context"

	"go.trai.ch/offline/internal/core/domain"
)

// Notifier displays system notifications.
//
//go:generate mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks
type Notifier interface {
	// Show displays n.
	Show(ctx context.Context, n domain.Notification) error

	// Close dismisses the notification with the given tag.
	Close(ctx context.Context, tag string) error
}
