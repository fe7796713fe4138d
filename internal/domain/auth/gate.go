package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mwork/relay-api/internal/domain/user"
)

const (
	revokedKeyPrefix = "session:revoked:"
	blockedKeyPrefix = "session:blocked:"
)

// RedisGate keeps revoked token ids and blocked-account markers in Redis so
// already issued tokens stop working. A nil client turns every call into a no-op.
type RedisGate struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisGate creates session gate
func NewRedisGate(client *redis.Client) *RedisGate {
	return &RedisGate{client: client, now: time.Now}
}

func revokedKey(tokenID string) string { return revokedKeyPrefix + tokenID }

func blockedKey(userID uuid.UUID) string { return blockedKeyPrefix + userID.String() }

// IsRevoked reports whether the token id was logged out.
func (g *RedisGate) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if g.client == nil || tokenID == "" {
		return false, nil
	}
	n, err := g.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsBlocked reports whether a block marker exists for the account.
func (g *RedisGate) IsBlocked(ctx context.Context, userID uuid.UUID) (bool, error) {
	if g.client == nil {
		return false, nil
	}
	n, err := g.client.Exists(ctx, blockedKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Revoke refuses tokenID until it would have expired anyway.
func (g *RedisGate) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if g.client == nil || tokenID == "" {
		return nil
	}
	ttl := expiresAt.Sub(g.now())
	if ttl <= 0 {
		return nil
	}
	return g.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err()
}

// MarkBlocked writes a marker that lives as long as the block. Permanent
// blocks get a marker without expiry.
func (g *RedisGate) MarkBlocked(ctx context.Context, userID uuid.UUID, state user.BlockState) error {
	if g.client == nil {
		return nil
	}
	ttl, active := markerTTL(state, g.now())
	if !active {
		return g.ClearBlocked(ctx, userID)
	}
	return g.client.Set(ctx, blockedKey(userID), "1", ttl).Err()
}

// ClearBlocked removes the account's block marker.
func (g *RedisGate) ClearBlocked(ctx context.Context, userID uuid.UUID) error {
	if g.client == nil {
		return nil
	}
	return g.client.Del(ctx, blockedKey(userID)).Err()
}

// markerTTL returns 0 for permanent blocks, which redis treats as no expiry.
func markerTTL(state user.BlockState, now time.Time) (time.Duration, bool) {
	if !state.ActiveAt(now) {
		return 0, false
	}
	if state.Until == nil {
		return 0, true
	}
	return state.Until.Sub(now), true
}
