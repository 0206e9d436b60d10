package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/country-explorer-server/internal/repository/postgres"
	"github.com/dom/country-explorer-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRegistry_ActivateAndDeactivate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	registry := postgres.NewSessionRegistry(testDB.DB)
	ctx := context.Background()
	expiry := time.Now().Add(7 * 24 * time.Hour)

	active, err := registry.IsActive(ctx, "some.refresh.token")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, registry.Activate(ctx, "some.refresh.token", expiry))

	active, err = registry.IsActive(ctx, "some.refresh.token")
	require.NoError(t, err)
	assert.True(t, active)

	// Membership is by exact token string
	active, err = registry.IsActive(ctx, "some.refresh.token2")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, registry.Deactivate(ctx, "some.refresh.token"))

	active, err = registry.IsActive(ctx, "some.refresh.token")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestSessionRegistry_ReactivateSameToken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	registry := postgres.NewSessionRegistry(testDB.DB)
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)

	require.NoError(t, registry.Activate(ctx, "token", expiry))
	require.NoError(t, registry.Activate(ctx, "token", expiry))

	active, err := registry.IsActive(ctx, "token")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestSessionRegistry_ExpiredRowRejected(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	registry := postgres.NewSessionRegistry(testDB.DB)
	ctx := context.Background()

	require.NoError(t, registry.Activate(ctx, "stale", time.Now().Add(-time.Minute)))

	active, err := registry.IsActive(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestSessionRegistry_DeactivateIsIdempotent(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	registry := postgres.NewSessionRegistry(testDB.DB)
	ctx := context.Background()

	require.NoError(t, registry.Deactivate(ctx, "never-activated"))
}
