// Package storetest provides a reusable contract suite that verifies a Store
// implementation against the externally observable semantics every backend
// must share. Each adapter runs this suite from its own tests, which is what
// makes backends interchangeable behind the ports.Store interface.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchel-dev/satchel/pkg/domain"
	"github.com/satchel-dev/satchel/pkg/ports"
)

const ttl = time.Hour

// Run executes the Store contract against the given store.
func Run(t *testing.T, store ports.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Absent", func(t *testing.T) {
		_, err := store.Get(ctx, "never-created")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Set_Get_RoundTrip", func(t *testing.T) {
		now := time.Now()
		rec := domain.NewRecord("round-trip", map[string]any{
			"user":   "alice",
			"count":  float64(3),
			"nested": map[string]any{"theme": "dark"},
		}, now, ttl)

		require.NoError(t, store.Set(ctx, rec.ID, rec))

		got, err := store.Get(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, rec.Data, got.Data)
		assert.True(t, got.CreatedAt.Equal(rec.CreatedAt), "created_at drifted")
		assert.True(t, got.ExpiresAt.Equal(rec.ExpiresAt), "expires_at drifted")
	})

	t.Run("Set_Overwrites", func(t *testing.T) {
		now := time.Now()
		first := domain.NewRecord("overwrite", map[string]any{"v": "one"}, now, ttl)
		second := domain.NewRecord("overwrite", map[string]any{"v": "two"}, now, ttl)

		require.NoError(t, store.Set(ctx, first.ID, first))
		require.NoError(t, store.Set(ctx, second.ID, second))

		got, err := store.Get(ctx, "overwrite")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"v": "two"}, got.Data)
	})

	t.Run("Delete_Idempotent", func(t *testing.T) {
		now := time.Now()
		rec := domain.NewRecord("deleted", map[string]any{"v": "x"}, now, ttl)
		require.NoError(t, store.Set(ctx, rec.ID, rec))

		require.NoError(t, store.Delete(ctx, rec.ID))
		_, err := store.Get(ctx, rec.ID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)

		// Second delete, and a delete of an ID that never existed.
		assert.NoError(t, store.Delete(ctx, rec.ID))
		assert.NoError(t, store.Delete(ctx, "never-created"))
	})

	t.Run("Get_Expired", func(t *testing.T) {
		past := time.Now().Add(-2 * ttl)
		rec := domain.NewRecord("expired", map[string]any{"v": "stale"}, past, ttl)
		require.NoError(t, store.Set(ctx, rec.ID, rec))

		_, err := store.Get(ctx, rec.ID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound,
			"a record past its expiry must be served as absent")

		exists, err := store.Exists(ctx, rec.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Exists", func(t *testing.T) {
		now := time.Now()
		rec := domain.NewRecord("present", map[string]any{"v": "y"}, now, ttl)
		require.NoError(t, store.Set(ctx, rec.ID, rec))

		exists, err := store.Exists(ctx, rec.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.Exists(ctx, "never-created")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	if enum, ok := store.(ports.KeyEnumerator); ok {
		t.Run("Keys", func(t *testing.T) {
			now := time.Now()
			require.NoError(t, store.Set(ctx, "enum-a", domain.NewRecord("enum-a", nil, now, ttl)))
			require.NoError(t, store.Set(ctx, "enum-b", domain.NewRecord("enum-b", nil, now, ttl)))

			keys, err := enum.Keys(ctx)
			require.NoError(t, err)
			assert.Contains(t, keys, "enum-a")
			assert.Contains(t, keys, "enum-b")
		})
	}
}
