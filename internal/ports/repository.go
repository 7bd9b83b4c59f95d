package ports

import (
	"context"
	"time"

	"shopify-pixel-relay/internal/domain"
)

// StateStore keeps anti-forgery OAuth state between initiation and callback
type StateStore interface {
	// Save stores the session until ttl elapses
	Save(ctx context.Context, session *domain.OAuthSession, ttl time.Duration) error

	// Consume returns and removes the session for state, or nil if absent or expired
	Consume(ctx context.Context, state string) (*domain.OAuthSession, error)
}

// InstallationRepository defines the interface for installation persistence
type InstallationRepository interface {
	// Save creates or replaces the installation for its shop
	Save(ctx context.Context, installation *domain.Installation) error

	// GetByShop retrieves an installation, returning nil when none exists
	GetByShop(ctx context.Context, shop string) (*domain.Installation, error)

	// List returns every recorded installation
	List(ctx context.Context) ([]*domain.Installation, error)
}
