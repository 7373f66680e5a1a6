package acp

import (
	"context"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/app/services/fhir_spark/resources"
	"fauxhr-service/internal/app/services/shared/appstate"
	"fauxhr-service/internal/app/services/shared/cache"
	"fauxhr-service/internal/app/services/shared/locker"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeFhirServer answers by request path and counts every hit.
type fakeFhirServer struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]fakeResponse
	hits   map[string]int
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeFhirServer(t *testing.T) *fakeFhirServer {
	t.Helper()
	fake := &fakeFhirServer{
		routes: make(map[string]fakeResponse),
		hits:   make(map[string]int),
	}
	fake.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fake.mu.Lock()
		fake.hits[r.URL.Path]++
		response, ok := fake.routes[r.URL.Path]
		fake.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"resourceType":"OperationOutcome","issue":[{"severity":"error","code":"not-found","diagnostics":"unknown path"}]}`)
			return
		}
		w.Header().Set("Content-Type", "application/fhir+json")
		w.WriteHeader(response.status)
		io.WriteString(w, response.body)
	}))
	t.Cleanup(fake.Close)
	return fake
}

func (f *fakeFhirServer) handle(path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = fakeResponse{status: status, body: body}
}

func (f *fakeFhirServer) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

type testEnv struct {
	state    *appstate.AppState
	registry contracts.FhirClientRegistry
	cache    contracts.ResourceCache
	writer   contracts.ResourceCacheWriter
}

func newTestEnv(t *testing.T, serverURL string, depth int) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	state := appstate.NewAppState(serverURL, depth, 2, logger)
	registry := resources.NewFhirClientRegistry(resources.ClientSettings{
		RequestTimeout:     2 * time.Second,
		BreakerMaxFailures: 100,
		BreakerOpenTimeout: time.Minute,
	}, state, logger)

	resourceCache, err := cache.NewMemoryResourceCache(1000)
	require.NoError(t, err)

	return &testEnv{
		state:    state,
		registry: registry,
		cache:    resourceCache,
		writer:   cache.NewResourceCacheWriter(resourceCache, locker.NewKeyedMutex(), logger),
	}
}

func seedCache(t *testing.T, resourceCache contracts.ResourceCache, entries map[string]string) {
	t.Helper()
	for key, value := range entries {
		require.NoError(t, resourceCache.SetString(context.Background(), key, value))
	}
}

func decodeAll(t *testing.T, documents ...string) []*models.ClinicalResource {
	t.Helper()
	decoded := make([]*models.ClinicalResource, 0, len(documents))
	for _, document := range documents {
		resource, err := models.DecodeClinicalResource([]byte(document))
		require.NoError(t, err)
		decoded = append(decoded, resource)
	}
	return decoded
}
