package locker

import (
	"context"
	"fauxhr-service/internal/app/services/shared/redis"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLockService(t *testing.T) *lockService {
	t.Helper()
	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &lockService{
		redisRepo: redis.NewRedisRepository(client),
		Log:       zap.NewNop(),
	}
}

func TestLockService_TryLockAndUnlock(t *testing.T) {
	ctx := context.Background()
	svc := newTestLockService(t)

	acquired, lockValue, err := svc.TryLock(ctx, "lock:Patient/1", time.Second)
	require.NoError(t, err)
	require.True(t, acquired)
	assert.NotEmpty(t, lockValue)

	t.Run("second attempt is refused while held", func(t *testing.T) {
		acquired, value, err := svc.TryLock(ctx, "lock:Patient/1", time.Second)
		require.NoError(t, err)
		assert.False(t, acquired)
		assert.Empty(t, value)
	})

	t.Run("foreign owner cannot unlock", func(t *testing.T) {
		err := svc.Unlock(ctx, "lock:Patient/1", "someone-else")
		assert.Error(t, err)
	})

	t.Run("owner unlocks and lock can be taken again", func(t *testing.T) {
		require.NoError(t, svc.Unlock(ctx, "lock:Patient/1", lockValue))
		acquired, _, err := svc.TryLock(ctx, "lock:Patient/1", time.Second)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("unlocking a missing lock is a no-op", func(t *testing.T) {
		assert.NoError(t, svc.Unlock(ctx, "lock:absent", "whatever"))
	})
}

func TestLockService_Lock(t *testing.T) {
	svc := newTestLockService(t)
	svc.ttl = time.Second
	svc.retryInterval = time.Millisecond

	release, err := svc.Lock(context.Background(), "srv_Goal_1")
	require.NoError(t, err)

	t.Run("contended lock gives up when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := svc.Lock(ctx, "srv_Goal_1")
		assert.Error(t, err)
	})

	t.Run("released lock can be taken again", func(t *testing.T) {
		release()
		again, err := svc.Lock(context.Background(), "srv_Goal_1")
		require.NoError(t, err)
		again()
	})
}
