package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwork/relay-api/internal/domain/user"
)

func TestRedisGateWithoutClientIsNoop(t *testing.T) {
	g := NewRedisGate(nil)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, g.Revoke(ctx, "jti", time.Now().Add(time.Hour)))
	require.NoError(t, g.MarkBlocked(ctx, id, user.PermanentBlock()))
	require.NoError(t, g.ClearBlocked(ctx, id))

	revoked, err := g.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)

	blocked, err := g.IsBlocked(ctx, id)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestMarkerTTL(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	ttl, active := markerTTL(user.PermanentBlock(), now)
	assert.True(t, active)
	assert.Zero(t, ttl)

	ttl, active = markerTTL(user.TemporaryBlock(now, 2), now)
	assert.True(t, active)
	assert.Equal(t, 48*time.Hour, ttl)

	_, active = markerTTL(user.TemporaryBlock(now.AddDate(0, 0, -3), 1), now)
	assert.False(t, active)

	_, active = markerTTL(user.Unblocked(), now)
	assert.False(t, active)
}

func TestKeys(t *testing.T) {
	id := uuid.MustParse("3f0e8a2c-6a3b-4d65-9a1e-2b9f0c8d7e61")
	assert.Equal(t, "session:blocked:3f0e8a2c-6a3b-4d65-9a1e-2b9f0c8d7e61", blockedKey(id))
	assert.Equal(t, "session:revoked:abc", revokedKey("abc"))
}
