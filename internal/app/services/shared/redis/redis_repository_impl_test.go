package redis

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*miniredis.Miniredis, *redisRepository) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, &redisRepository{client: client}
}

func TestRedisRepository_GetSet(t *testing.T) {
	ctx := context.Background()
	_, repo := newTestRepository(t)

	t.Run("missing key returns empty string without error", func(t *testing.T) {
		value, err := repo.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})

	t.Run("Set stores JSON encoded value", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "json", "hello", 0))
		value, err := repo.Get(ctx, "json")
		require.NoError(t, err)
		assert.Equal(t, `"hello"`, value)
	})

	t.Run("SetRaw stores value verbatim", func(t *testing.T) {
		require.NoError(t, repo.SetRaw(ctx, "raw", `{"resourceType":"Goal"}`, 0))
		value, err := repo.Get(ctx, "raw")
		require.NoError(t, err)
		assert.Equal(t, `{"resourceType":"Goal"}`, value)
	})
}

func TestRedisRepository_ExistsAndDelete(t *testing.T) {
	ctx := context.Background()
	_, repo := newTestRepository(t)

	require.NoError(t, repo.SetRaw(ctx, "k", "v", 0))
	exists, err := repo.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, "k"))
	exists, err = repo.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisRepository_ScanKeys(t *testing.T) {
	ctx := context.Background()
	_, repo := newTestRepository(t)

	for _, key := range []string{"acp:a", "acp:b", "other:c"} {
		require.NoError(t, repo.SetRaw(ctx, key, "1", 0))
	}

	keys, err := repo.ScanKeys(ctx, "acp:*")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"acp:a", "acp:b"}, keys)
}

func TestRedisRepository_TrySetNX(t *testing.T) {
	ctx := context.Background()
	server, repo := newTestRepository(t)

	acquired, err := repo.TrySetNX(ctx, "lock", "owner-1", time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = repo.TrySetNX(ctx, "lock", "owner-2", time.Second)
	require.NoError(t, err)
	assert.False(t, acquired)

	server.FastForward(2 * time.Second)
	acquired, err = repo.TrySetNX(ctx, "lock", "owner-2", time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}
