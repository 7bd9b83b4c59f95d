package repository

import (
	"context"
	"testing"
	"time"

	"shopify-pixel-relay/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryInstallationRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("missing shop returns nil", func(t *testing.T) {
		repo := NewMemoryInstallationRepository()
		installation, err := repo.GetByShop(ctx, "nope.myshopify.com")
		require.NoError(t, err)
		assert.Nil(t, installation)
	})

	t.Run("save replaces by shop", func(t *testing.T) {
		repo := NewMemoryInstallationRepository()
		require.NoError(t, repo.Save(ctx, &domain.Installation{Shop: "a.myshopify.com", Scope: "write_pixels"}))
		require.NoError(t, repo.Save(ctx, &domain.Installation{Shop: "a.myshopify.com", Scope: "write_pixels,read_customer_events"}))

		installation, err := repo.GetByShop(ctx, "a.myshopify.com")
		require.NoError(t, err)
		require.NotNil(t, installation)
		assert.Equal(t, "write_pixels,read_customer_events", installation.Scope)
		assert.False(t, installation.InstalledAt.IsZero())

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		repo := NewMemoryInstallationRepository()
		require.NoError(t, repo.Save(ctx, &domain.Installation{Shop: "a.myshopify.com", Scope: "x"}))

		installation, _ := repo.GetByShop(ctx, "a.myshopify.com")
		installation.Scope = "mutated"

		again, _ := repo.GetByShop(ctx, "a.myshopify.com")
		assert.Equal(t, "x", again.Scope)
	})

	t.Run("list is newest first", func(t *testing.T) {
		repo := NewMemoryInstallationRepository()
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Save(ctx, &domain.Installation{Shop: "old.myshopify.com", InstalledAt: base}))
		require.NoError(t, repo.Save(ctx, &domain.Installation{Shop: "new.myshopify.com", InstalledAt: base.Add(time.Hour)}))

		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "new.myshopify.com", all[0].Shop)
		assert.Equal(t, "old.myshopify.com", all[1].Shop)
	})
}
