package application

import (
	"context"
	"errors"
	"testing"

	"shopify-pixel-relay/internal/domain"
	"shopify-pixel-relay/internal/infrastructure/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallationService(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryInstallationRepository()
	svc := NewInstallationService(repo, zerolog.Nop())

	t.Run("empty list is not nil", func(t *testing.T) {
		all, err := svc.ListInstallations(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.GetInstallation(ctx, "demo.myshopify.com")
		assert.True(t, errors.Is(err, domain.ErrInstallationNotFound))
	})

	t.Run("missing shop", func(t *testing.T) {
		_, err := svc.GetInstallation(ctx, "")
		assert.True(t, errors.Is(err, domain.ErrMissingParameter))
	})

	t.Run("found", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &domain.Installation{Shop: "demo.myshopify.com", Scope: "write_pixels"}))

		installation, err := svc.GetInstallation(ctx, "demo.myshopify.com")
		require.NoError(t, err)
		assert.Equal(t, "write_pixels", installation.Scope)

		all, err := svc.ListInstallations(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}
