package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"shopify-pixel-relay/internal/domain"
	"shopify-pixel-relay/internal/ports"
)

// MemoryInstallationRepository keeps installations in process memory.
// Used when no MongoDB is configured; records are lost on restart.
type MemoryInstallationRepository struct {
	mu            sync.RWMutex
	installations map[string]domain.Installation
}

// NewMemoryInstallationRepository creates an empty in-memory repository
func NewMemoryInstallationRepository() *MemoryInstallationRepository {
	return &MemoryInstallationRepository{
		installations: make(map[string]domain.Installation),
	}
}

// Save creates or replaces the installation for its shop
func (r *MemoryInstallationRepository) Save(ctx context.Context, installation *domain.Installation) error {
	stored := *installation
	if stored.InstalledAt.IsZero() {
		stored.InstalledAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.installations[stored.Shop] = stored
	return nil
}

// GetByShop returns a copy of the installation, or nil
func (r *MemoryInstallationRepository) GetByShop(ctx context.Context, shop string) (*domain.Installation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	installation, ok := r.installations[shop]
	if !ok {
		return nil, nil
	}
	return &installation, nil
}

// List returns all installations, most recent first
func (r *MemoryInstallationRepository) List(ctx context.Context) ([]*domain.Installation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	installations := make([]*domain.Installation, 0, len(r.installations))
	for _, installation := range r.installations {
		installation := installation
		installations = append(installations, &installation)
	}
	sort.Slice(installations, func(i, j int) bool {
		return installations[i].InstalledAt.After(installations[j].InstalledAt)
	})
	return installations, nil
}

var _ ports.InstallationRepository = (*MemoryInstallationRepository)(nil)
