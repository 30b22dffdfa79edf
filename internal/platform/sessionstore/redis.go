package sessionstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keeps each session in a hash keyed by session ID with a TTL
// refreshed on every write. Redis evicts expired sessions itself, so
// Sweep is a no-op for this backend.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("sessionstore: redis ping: %w", err)
	}

	return &Redis{client: client, ttl: ttl}, nil
}

func redisKey(sid string) string {
	return "portal:session:" + sid
}

func (r *Redis) Get(ctx context.Context, sid, key string) (string, error) {
	value, err := r.client.HGet(ctx, redisKey(sid), key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("sessionstore: hget: %w", err)
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, sid, key, value string) error {
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, redisKey(sid), key, value)
	if r.ttl > 0 {
		pipe.Expire(ctx, redisKey(sid), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("sessionstore: hset: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, redisKey(sid), keys...).Err(); err != nil {
		return fmt.Errorf("sessionstore: hdel: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context, sid string) error {
	if err := r.client.Del(ctx, redisKey(sid)).Err(); err != nil {
		return fmt.Errorf("sessionstore: del: %w", err)
	}
	return nil
}

func (r *Redis) Sweep(ctx context.Context) (int, error) {
	return 0, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
