package cache

import (
	"errors"
	"fauxhr-service/internal/app/config"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/app/services/shared/locker"
	"fauxhr-service/internal/pkg/constvars"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ResourceStore pairs the read side of the cache with its monotonic writer.
// Locker is the writer's per key lock, shared with other read-modify-write users.
type ResourceStore struct {
	Cache  contracts.ResourceCache
	Writer contracts.ResourceCacheWriter
	Locker contracts.KeyLocker
}

var ErrRedisRepositoryRequired = errors.New("redis cache backend requires a redis repository")

func NewResourceStore(cacheConfig config.AppCache, redisRepo contracts.RedisRepository, logger *zap.Logger) (*ResourceStore, error) {
	switch cacheConfig.Backend {
	case constvars.CacheBackendRedis:
		if redisRepo == nil {
			return nil, ErrRedisRepositoryRequired
		}
		resourceCache := NewRedisResourceCache(redisRepo, cacheConfig.KeyPrefix)
		lockTTL := time.Duration(cacheConfig.LockTTLInSeconds) * time.Second
		keyLocker := locker.NewLockService(redisRepo, logger, lockTTL)
		return &ResourceStore{
			Cache:  resourceCache,
			Writer: NewResourceCacheWriter(resourceCache, keyLocker, logger),
			Locker: keyLocker,
		}, nil
	case constvars.CacheBackendMemory:
		resourceCache, err := NewMemoryResourceCache(cacheConfig.MemorySize)
		if err != nil {
			return nil, err
		}
		keyLocker := locker.NewKeyedMutex()
		return &ResourceStore{
			Cache:  resourceCache,
			Writer: NewResourceCacheWriter(resourceCache, keyLocker, logger),
			Locker: keyLocker,
		}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cacheConfig.Backend)
	}
}
