//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogsRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDBFromSharedContainer(t)
	require.NoError(t, db.SetLogsTTL(ctx, 30))
	repo := NewLogsRepository(db)

	entry := &LogEntryDocument{
		Level:      "info",
		Message:    "HTTP request",
		RequestID:  "req-1",
		Method:     "POST",
		Path:       "/api/allocate",
		StatusCode: 200,
		Duration:   12,
	}
	require.NoError(t, repo.Create(ctx, entry))
	assert.False(t, entry.ID.IsZero())
	assert.False(t, entry.Timestamp.IsZero())

	require.NoError(t, repo.CreateMany(ctx, []*LogEntryDocument{
		{Level: "info", Message: "Audit", ActionType: "share", AllocationID: "a1"},
		{Level: "warn", Message: "Audit", ActionType: "allocate", AllocationID: "a2"},
	}))
	require.NoError(t, repo.CreateMany(ctx, nil))

	tests := []struct {
		name  string
		opts  LogQueryOptions
		count int64
	}{
		{name: "all", opts: LogQueryOptions{}, count: 3},
		{name: "by request id", opts: LogQueryOptions{RequestID: "req-1"}, count: 1},
		{name: "by action", opts: LogQueryOptions{ActionType: "share"}, count: 1},
		{name: "by allocation", opts: LogQueryOptions{AllocationID: "a2"}, count: 1},
		{name: "by path fragment", opts: LogQueryOptions{Path: "allocate"}, count: 1},
		{name: "future window", opts: LogQueryOptions{StartTime: ptrTime(time.Now().Add(time.Hour))}, count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := repo.Count(ctx, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.count, count)

			entries, err := repo.Query(ctx, tt.opts)
			require.NoError(t, err)
			assert.Len(t, entries, int(tt.count))
		})
	}

	t.Run("limit and skip", func(t *testing.T) {
		entries, err := repo.Query(ctx, LogQueryOptions{Limit: 1, Skip: 1})
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func ptrTime(t time.Time) *time.Time { return &t }
