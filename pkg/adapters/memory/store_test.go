package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchel-dev/satchel/pkg/adapters/memory"
	"github.com/satchel-dev/satchel/pkg/domain"
	"github.com/satchel-dev/satchel/pkg/ports/storetest"
)

func TestMemoryStore_Contract(t *testing.T) {
	storetest.Run(t, memory.New())
}

func TestMemoryStore_Isolation(t *testing.T) {
	// Mutating a record after Set, or the result of Get, must not leak into
	// stored state.
	ctx := context.Background()
	store := memory.New()

	rec := domain.NewRecord("iso", map[string]any{"v": "original"}, time.Now(), time.Hour)
	require.NoError(t, store.Set(ctx, rec.ID, rec))
	rec.Data["v"] = "mutated-after-set"

	got, err := store.Get(ctx, "iso")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Data["v"])

	got.Data["v"] = "mutated-after-get"
	again, err := store.Get(ctx, "iso")
	require.NoError(t, err)
	assert.Equal(t, "original", again.Data["v"])
}
