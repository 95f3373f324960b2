package session

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "storefront:session:"

// RedisBackend keeps each namespace in one hash. Keys never expire.
type RedisBackend struct {
	Client *redis.Client
}

func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{Client: client}
}

func redisKey(namespace string) string { return redisKeyPrefix + namespace }

func (r *RedisBackend) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	v, err := r.Client.HGet(ctx, redisKey(namespace), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, namespace string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(values))
	for k, v := range values {
		fields[k] = v
	}
	return r.Client.HSet(ctx, redisKey(namespace), fields).Err()
}

func (r *RedisBackend) Delete(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.Client.HDel(ctx, redisKey(namespace), keys...).Err()
}
