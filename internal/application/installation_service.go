package application

import (
	"context"
	"fmt"

	"shopify-pixel-relay/internal/domain"
	"shopify-pixel-relay/internal/ports"

	"github.com/rs/zerolog"
)

// InstallationService exposes recorded installations
type InstallationService struct {
	installationRepo ports.InstallationRepository
	logger           zerolog.Logger
}

// NewInstallationService creates a new installation service
func NewInstallationService(
	installationRepo ports.InstallationRepository,
	logger zerolog.Logger,
) *InstallationService {
	return &InstallationService{
		installationRepo: installationRepo,
		logger:           logger,
	}
}

// GetInstallation retrieves the installation for a shop
func (s *InstallationService) GetInstallation(ctx context.Context, shop string) (*domain.Installation, error) {
	if shop == "" {
		return nil, fmt.Errorf("%w: shop", domain.ErrMissingParameter)
	}

	installation, err := s.installationRepo.GetByShop(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("failed to get installation: %w", err)
	}

	if installation == nil {
		return nil, domain.ErrInstallationNotFound
	}

	return installation, nil
}

// ListInstallations returns every recorded installation
func (s *InstallationService) ListInstallations(ctx context.Context) ([]*domain.Installation, error) {
	installations, err := s.installationRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list installations")
		return nil, fmt.Errorf("failed to list installations: %w", err)
	}
	if installations == nil {
		installations = []*domain.Installation{}
	}
	return installations, nil
}
