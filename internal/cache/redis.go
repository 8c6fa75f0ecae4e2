package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vicesapp/vendor-service/pkg/models"
)

// RedisStore is the alternative Store backend for deployments that want
// cached results shared across processes. Result entries are stored as JSON
// with redis-side TTL expiry. Any redis failure degrades to a cache miss.
type RedisStore struct {
	rdb *redis.Client
	log *zap.SugaredLogger
}

func NewRedisStore(rdb *redis.Client, log *zap.SugaredLogger) *RedisStore {
	return &RedisStore{rdb: rdb, log: log}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]models.VendorResult, bool) {
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Warnw("redis get failed", "key", key, "err", err)
		}
		return nil, false
	}
	var results []models.VendorResult
	if err := json.Unmarshal(raw, &results); err != nil {
		r.log.Warnw("redis entry corrupt, dropping", "key", key, "err", err)
		r.rdb.Del(ctx, key)
		return nil, false
	}
	return results, true
}

func (r *RedisStore) Set(ctx context.Context, key string, results []models.VendorResult, ttl time.Duration) {
	raw, err := json.Marshal(results)
	if err != nil {
		r.log.Errorw("marshal cache entry", "key", key, "err", err)
		return
	}
	if err := r.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		r.log.Warnw("redis set failed", "key", key, "err", err)
	}
}
