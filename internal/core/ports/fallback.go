package ports

import (
	"context"

	"go.trai.ch/offline/internal/core/domain"
)

// FallbackProvider produces the offline document for a navigation.
//
//go:generate mockgen -source=fallback.go -destination=mocks/mock_fallback.go -package=mocks
type FallbackProvider interface {
	// Document returns the offline page for req, served as text/html.
	Document(ctx context.Context, req *domain.Request) (*domain.Response, error)
}
