package contracts

import "context"

// ResourceCache is the key to JSON text store holding fetched FHIR resources.
type ResourceCache interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string) error
	Keys(ctx context.Context) ([]string, error)
	ContainsKey(ctx context.Context, key string) (bool, error)
}

type ResourceCacheWriter interface {
	// Save stores document under key unless the stored copy has a
	// meta.lastUpdated at or after the incoming one. It reports whether it wrote.
	Save(ctx context.Context, key string, document []byte) (bool, error)
}
