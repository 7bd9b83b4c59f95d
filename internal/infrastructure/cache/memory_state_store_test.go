package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"shopify-pixel-relay/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateStore_SaveConsume(t *testing.T) {
	store := NewMemoryStateStore(time.Minute)
	defer store.Close()

	ctx := context.Background()

	t.Run("consumes a saved session once", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &domain.OAuthSession{State: "s1", Shop: "a.myshopify.com"}, time.Hour))

		session, err := store.Consume(ctx, "s1")
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "a.myshopify.com", session.Shop)
		assert.False(t, session.ExpiresAt.IsZero())

		again, err := store.Consume(ctx, "s1")
		require.NoError(t, err)
		assert.Nil(t, again, "state must not be consumable twice")
	})

	t.Run("unknown state", func(t *testing.T) {
		session, err := store.Consume(ctx, "never-saved")
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("expired state", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &domain.OAuthSession{State: "s2", Shop: "b.myshopify.com"}, 10*time.Millisecond))
		time.Sleep(20 * time.Millisecond)

		session, err := store.Consume(ctx, "s2")
		require.NoError(t, err)
		assert.Nil(t, session)
	})
}

func TestMemoryStateStore_Cleanup(t *testing.T) {
	store := NewMemoryStateStore(time.Hour)
	defer store.Close()

	now := time.Now()
	store.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.OAuthSession{State: "old"}, time.Minute))
	require.NoError(t, store.Save(ctx, &domain.OAuthSession{State: "fresh"}, time.Hour))
	assert.Equal(t, 2, store.Len())

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	store.cleanup()

	assert.Equal(t, 1, store.Len())
	session, err := store.Consume(ctx, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, session)
}

func TestMemoryStateStore_ConcurrentConsume(t *testing.T) {
	store := NewMemoryStateStore(time.Minute)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.OAuthSession{State: "race"}, time.Minute))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := store.Consume(ctx, "race")
			assert.NoError(t, err)
			if session != nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestMemoryStateStore_CloseIdempotent(t *testing.T) {
	store := NewMemoryStateStore(time.Minute)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
