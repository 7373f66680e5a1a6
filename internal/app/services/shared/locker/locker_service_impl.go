package locker

import (
	"context"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/exceptions"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultRetryInterval = 20 * time.Millisecond

type lockService struct {
	redisRepo     contracts.RedisRepository
	Log           *zap.Logger
	ttl           time.Duration
	retryInterval time.Duration
}

// NewLockService returns a redis SETNX lock. The same value also satisfies
// contracts.KeyLocker, blocking until the key is free or ctx is done.
func NewLockService(repo contracts.RedisRepository, logger *zap.Logger, ttl time.Duration) *lockService {
	return &lockService{
		redisRepo:     repo,
		Log:           logger,
		ttl:           ttl,
		retryInterval: defaultRetryInterval,
	}
}

var (
	_ contracts.LockerService = (*lockService)(nil)
	_ contracts.KeyLocker     = (*lockService)(nil)
)

func (s *lockService) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Debug("lockService.TryLock called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRedisKey, key),
		zap.Duration(constvars.LoggingLockExpirationTimeKey, expiration),
	)

	lockValue := uuid.NewString()
	acquired, err := s.redisRepo.TrySetNX(ctx, key, lockValue, expiration)
	if err != nil {
		s.Log.Error("lockService.TryLock error calling redisRepo.TrySetNX",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return false, "", err
	}
	if !acquired {
		return false, "", nil
	}

	s.Log.Debug("lockService.TryLock acquired lock",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRedisKey, key),
		zap.String(constvars.LoggingLockValueKey, lockValue),
	)
	return true, lockValue, nil
}

func (s *lockService) Unlock(ctx context.Context, key, lockValue string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	storedVal, err := s.redisRepo.Get(ctx, key)
	if err != nil {
		s.Log.Error("lockService.Unlock error retrieving value from redis",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	if storedVal == "" {
		// expired before release
		return nil
	}

	// TrySetNX stores the JSON encoded lock value
	expectedValue := fmt.Sprintf("\"%s\"", lockValue)
	if storedVal != expectedValue {
		err := exceptions.ErrRedisUnlock(fmt.Errorf("lock %s not owned by this client", key))
		s.Log.Error("lockService.Unlock lock ownership mismatch",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingLockStoredValueKey, storedVal),
			zap.String(constvars.LoggingLockExpectedValueKey, expectedValue),
			zap.Error(err),
		)
		return err
	}

	if err := s.redisRepo.Delete(ctx, key); err != nil {
		s.Log.Error("lockService.Unlock error deleting lock from redis",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Lock polls TryLock on the lock key derived from cacheKey.
func (s *lockService) Lock(ctx context.Context, cacheKey string) (func(), error) {
	lockKey := fmt.Sprintf(constvars.CacheLockKeyFormat, cacheKey)
	ticker := time.NewTicker(s.retryInterval)
	defer ticker.Stop()

	for {
		acquired, lockValue, err := s.TryLock(ctx, lockKey, s.ttl)
		if err != nil {
			return nil, err
		}
		if acquired {
			return func() {
				// release even when the caller's context is already cancelled
				if err := s.Unlock(context.WithoutCancel(ctx), lockKey, lockValue); err != nil {
					s.Log.Warn("lockService.Lock release failed",
						zap.String(constvars.LoggingCacheKey, cacheKey),
						zap.Error(err),
					)
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, exceptions.ErrCacheLockNotAcquired(ctx.Err(), cacheKey)
		case <-ticker.C:
		}
	}
}
