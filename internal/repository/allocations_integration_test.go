//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocationsRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewAllocationsRepository(setupTestDBFromSharedContainer(t))
	base := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, repo.Save(ctx, sampleAllocation("a1", base)))
	require.NoError(t, repo.Save(ctx, sampleAllocation("a2", base.Add(time.Minute))))

	t.Run("get", func(t *testing.T) {
		got, err := repo.Get(ctx, "a1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Len(t, got.Placements, 2)
		assert.True(t, got.Placements[1].Rotated)
		assert.Equal(t, uint(28185), got.WeightCapacityLeft)
	})

	t.Run("get missing", func(t *testing.T) {
		got, err := repo.Get(ctx, "zzz")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list recent", func(t *testing.T) {
		list, err := repo.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "a2", list[0].ID)
		assert.Equal(t, 2, list[0].ItemCount)
	})
}
