package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jaekwang-park/agenda-api/internal/model"
)

// SnapshotCache is a read-through Redis cache in front of a SnapshotReader.
// It caches store reads only; agendas are always assembled per request.
// Writers must call Invalidate after every task or radar change.
type SnapshotCache struct {
	base  SnapshotReader
	redis *redis.Client
	ttl   time.Duration
}

// NewSnapshotCache wraps base. A nil client or a zero ttl disables caching
// and every call goes straight to base.
func NewSnapshotCache(base SnapshotReader, client *redis.Client, ttl time.Duration) *SnapshotCache {
	if base == nil {
		panic("repository.NewSnapshotCache: base reader is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &SnapshotCache{base: base, redis: client, ttl: ttl}
}

func (c *SnapshotCache) Snapshot(ctx context.Context, userID string, withRadar bool) (model.Snapshot, error) {
	key := snapshotCacheKey(userID, withRadar)
	if snap, ok := c.load(ctx, key); ok {
		return snap, nil
	}

	snap, err := c.base.Snapshot(ctx, userID, withRadar)
	if err != nil {
		return model.Snapshot{}, err
	}

	c.store(ctx, key, snap)
	return snap, nil
}

// Invalidate drops every cached snapshot of userID.
func (c *SnapshotCache) Invalidate(ctx context.Context, userID string) {
	if c.redis == nil {
		return
	}
	err := c.redis.Del(ctx, snapshotCacheKey(userID, false), snapshotCacheKey(userID, true)).Err()
	if err != nil {
		slog.WarnContext(ctx, "snapshot cache eviction failed", "user_id", userID, "error", err)
	}
}

func (c *SnapshotCache) load(ctx context.Context, key string) (model.Snapshot, bool) {
	if c.redis == nil || c.ttl == 0 {
		return model.Snapshot{}, false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "snapshot cache read failed", "key", key, "error", err)
			_ = c.redis.Del(ctx, key).Err()
		}
		return model.Snapshot{}, false
	}
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return model.Snapshot{}, false
	}
	return snap, true
}

func (c *SnapshotCache) store(ctx context.Context, key string, snap model.Snapshot) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "snapshot cache write failed", "key", key, "error", err)
	}
}

func snapshotCacheKey(userID string, withRadar bool) string {
	if withRadar {
		return "agenda:snapshot:" + userID + ":radar"
	}
	return "agenda:snapshot:" + userID
}

var _ SnapshotReader = (*SnapshotCache)(nil)
