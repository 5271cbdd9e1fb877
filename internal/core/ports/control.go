package ports

import (
	"context"

	"go.trai.ch/offline/internal/core/domain"
)

//go:generate mockgen -source=control.go -destination=mocks/mock_control.go -package=mocks

// ControlHandler answers control requests inside a running gateway.
type ControlHandler interface {
	// PostMessage delivers msg to the registration. The reply is nil when the
	// worker did not post one.
	PostMessage(ctx context.Context, msg domain.Message) (map[string]any, error)

	// Status returns a snapshot of the gateway.
	Status(ctx context.Context) (*domain.GatewayStatus, error)

	// Shutdown asks the gateway to stop.
	Shutdown(ctx context.Context) error
}

// ControlClient talks to a running gateway over its control socket.
type ControlClient interface {
	ControlHandler

	// Close releases the connection.
	Close() error
}

// ControlDialer connects to the control socket of a running gateway.
type ControlDialer interface {
	// Dial returns a client for the gateway listening on socketPath.
	Dial(ctx context.Context, socketPath string) (ControlClient, error)
}
