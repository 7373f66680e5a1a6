package cache

import (
	"context"
	"fauxhr-service/internal/app/contracts"

	lru "github.com/hashicorp/golang-lru/v2"
)

// memoryResourceCache keeps at most size entries, evicting the least recently used.
type memoryResourceCache struct {
	entries *lru.Cache[string, string]
}

func NewMemoryResourceCache(size int) (contracts.ResourceCache, error) {
	entries, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &memoryResourceCache{entries: entries}, nil
}

func (c *memoryResourceCache) GetString(ctx context.Context, key string) (string, bool, error) {
	value, ok := c.entries.Get(key)
	return value, ok, nil
}

func (c *memoryResourceCache) SetString(ctx context.Context, key, value string) error {
	c.entries.Add(key, value)
	return nil
}

func (c *memoryResourceCache) Keys(ctx context.Context) ([]string, error) {
	return c.entries.Keys(), nil
}

func (c *memoryResourceCache) ContainsKey(ctx context.Context, key string) (bool, error) {
	return c.entries.Contains(key), nil
}
