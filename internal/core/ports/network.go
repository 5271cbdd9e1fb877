package ports

import (
	"context"

	"go.trai.ch/offline/internal/core/domain"
)

// Network issues requests to the origin.
//
//go:generate mockgen -source=network.go -destination=mocks/mock_network.go -package=mocks
type Network interface {
	// Fetch performs the request. A response with any status is a success;
	// an error means no response is available (offline, DNS failure, timeout).
	Fetch(ctx context.Context, req *domain.Request) (*domain.Response, error)
}
