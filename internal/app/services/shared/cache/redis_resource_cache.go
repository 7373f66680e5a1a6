package cache

import (
	"context"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/pkg/exceptions"
	"strings"
)

type redisResourceCache struct {
	redisRepo contracts.RedisRepository
	keyPrefix string
}

func NewRedisResourceCache(redisRepo contracts.RedisRepository, keyPrefix string) contracts.ResourceCache {
	return &redisResourceCache{
		redisRepo: redisRepo,
		keyPrefix: keyPrefix,
	}
}

func (c *redisResourceCache) GetString(ctx context.Context, key string) (string, bool, error) {
	value, err := c.redisRepo.Get(ctx, c.keyPrefix+key)
	if err != nil {
		return "", false, exceptions.ErrCacheGet(err, key)
	}
	if value == "" {
		return "", false, nil
	}
	return value, true, nil
}

func (c *redisResourceCache) SetString(ctx context.Context, key, value string) error {
	if err := c.redisRepo.SetRaw(ctx, c.keyPrefix+key, value, 0); err != nil {
		return exceptions.ErrCacheSet(err, key)
	}
	return nil
}

func (c *redisResourceCache) Keys(ctx context.Context) ([]string, error) {
	rawKeys, err := c.redisRepo.ScanKeys(ctx, c.keyPrefix+"*")
	if err != nil {
		return nil, exceptions.ErrCacheKeys(err)
	}
	keys := make([]string, 0, len(rawKeys))
	for _, rawKey := range rawKeys {
		keys = append(keys, strings.TrimPrefix(rawKey, c.keyPrefix))
	}
	return keys, nil
}

func (c *redisResourceCache) ContainsKey(ctx context.Context, key string) (bool, error) {
	exists, err := c.redisRepo.Exists(ctx, c.keyPrefix+key)
	if err != nil {
		return false, exceptions.ErrCacheGet(err, key)
	}
	return exists, nil
}
