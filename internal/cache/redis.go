package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// RedisCache keeps immutable indexer records (blocks, mined transactions) in
// redis as JSON so repeated page views skip the indexer.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	logger *zerolog.Logger
}

// NewRedisCache connects to addr and verifies the connection.
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration, logger *zerolog.Logger) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return &RedisCache{
		rdb:    rdb,
		ttl:    ttl,
		prefix: "explorer:",
		logger: logger,
	}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string, dst any) bool {
	val, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		_ = r.rdb.Del(ctx, r.prefix+key).Err()
		return false
	}
	r.logger.Debug().Str("key", key).Msg("Cache hit")
	return true
}

func (r *RedisCache) Set(ctx context.Context, key string, value any) {
	val, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("Failed to encode cache entry")
		return
	}
	if err := r.rdb.Set(ctx, r.prefix+key, val, r.ttl).Err(); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

func (r *RedisCache) Close() error {
	return r.rdb.Close()
}
