package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis keeps pages as plain keys with a TTL and tracks them in one set per
// tenant and resource. The generation is a counter key bumped with INCR.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{rdb: rdb, ttl: ttl}
}

// MustOpenRedis connects to addr and exits if the server does not answer.
func MustOpenRedis(ctx context.Context, addr string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("redis ping fail")
	}
	return rdb
}

func (c *Redis) Generation(ctx context.Context, tenantID int64, resource string) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(tenantID, resource)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *Redis) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *Redis) Set(ctx context.Context, key Key, value []byte) error {
	idx := indexKey(key.TenantID, key.Resource)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key.String(), value, c.ttl)
		pipe.SAdd(ctx, idx, key.String())
		pipe.Expire(ctx, idx, c.ttl)
		return nil
	})
	return err
}

// Invalidate bumps the generation first, so pages written by requests still in
// flight land under a key nobody reads, then drops the stored pages.
func (c *Redis) Invalidate(ctx context.Context, tenantID int64, resource string) error {
	if err := c.rdb.Incr(ctx, generationKey(tenantID, resource)).Err(); err != nil {
		return err
	}
	idx := indexKey(tenantID, resource)
	keys, err := c.rdb.SMembers(ctx, idx).Result()
	if err != nil {
		return err
	}
	return c.rdb.Del(ctx, append(keys, idx)...).Err()
}
