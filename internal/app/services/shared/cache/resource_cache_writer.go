package cache

import (
	"context"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

type resourceCacheWriter struct {
	cache  contracts.ResourceCache
	locker contracts.KeyLocker
	Log    *zap.Logger
}

func NewResourceCacheWriter(cache contracts.ResourceCache, locker contracts.KeyLocker, logger *zap.Logger) contracts.ResourceCacheWriter {
	return &resourceCacheWriter{
		cache:  cache,
		locker: locker,
		Log:    logger,
	}
}

func (w *resourceCacheWriter) Save(ctx context.Context, key string, document []byte) (bool, error) {
	incoming, err := LastUpdatedOf(document)
	if err != nil {
		incoming = nil
	}

	release, err := w.locker.Lock(ctx, key)
	if err != nil {
		return false, err
	}
	defer release()

	existing, found, err := w.cache.GetString(ctx, key)
	if err != nil {
		return false, err
	}

	if found && incoming != nil {
		stored, err := LastUpdatedOf([]byte(existing))
		// an unreadable stored copy is replaced
		if err == nil && stored != nil && !incoming.After(*stored) {
			w.Log.Debug("resourceCacheWriter.Save kept newer stored copy",
				zap.String(constvars.LoggingCacheKey, key),
				zap.Time("incoming_last_updated", *incoming),
				zap.Time("stored_last_updated", *stored),
			)
			return false, nil
		}
	}

	if err := w.cache.SetString(ctx, key, string(document)); err != nil {
		return false, err
	}
	return true, nil
}
