//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoDB_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDBFromSharedContainer(t)

	t.Run("collections wired", func(t *testing.T) {
		assert.Equal(t, "container_profiles", db.ContainerProfiles.Name())
		assert.Equal(t, "allocations", db.Allocations.Name())
		assert.Equal(t, "logs", db.Logs.Name())
	})

	t.Run("health check", func(t *testing.T) {
		assert.NoError(t, db.HealthCheck(ctx))
	})

	t.Run("logs TTL can be reset", func(t *testing.T) {
		require.NoError(t, db.SetLogsTTL(ctx, 30))
		assert.NoError(t, db.SetLogsTTL(ctx, 7))
	})

	t.Run("bad uri fails", func(t *testing.T) {
		cfg := DefaultMongoConfig()
		cfg.ConnectTimeout = 500 * time.Millisecond
		cfg.ServerSelectionTimeout = 500 * time.Millisecond
		_, err := NewMongoDBWithConfig("mongodb://127.0.0.1:1", "nope", cfg)
		assert.Error(t, err)
	})
}
