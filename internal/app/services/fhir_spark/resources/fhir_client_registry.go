package resources

import (
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/app/services/shared/appstate"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/exceptions"
	"fauxhr-service/internal/pkg/utils"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// fhirClientRegistry hands out one client per server so each server keeps
// its own breaker and limiter.
type fhirClientRegistry struct {
	mu       sync.Mutex
	clients  map[string]contracts.FhirResourceClient
	settings ClientSettings
	state    *appstate.AppState
	Log      *zap.Logger
}

func NewFhirClientRegistry(settings ClientSettings, state *appstate.AppState, logger *zap.Logger) contracts.FhirClientRegistry {
	registry := &fhirClientRegistry{
		clients:  make(map[string]contracts.FhirResourceClient),
		settings: settings,
		state:    state,
		Log:      logger,
	}
	state.Subscribe(registry.onStateChange)
	return registry
}

func (r *fhirClientRegistry) Client(serverURL string) (contracts.FhirResourceClient, error) {
	serverURL = utils.SanitizeServerURL(serverURL)
	if !utils.IsHTTPURL(serverURL) {
		return nil, exceptions.ErrInvalidServerURL(fmt.Errorf("%q is not an absolute http(s) url", serverURL))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[serverURL]
	if !ok {
		client = NewFhirResourceClient(serverURL, r.settings, r.Log)
		r.clients[serverURL] = client
	}
	return client, nil
}

func (r *fhirClientRegistry) Current() (contracts.FhirResourceClient, error) {
	return r.Client(r.state.ServerURL())
}

// onStateChange rebuilds the client of a newly selected server so it starts
// with a closed breaker.
func (r *fhirClientRegistry) onStateChange(event appstate.Event) {
	if event.Kind != appstate.ServerChanged {
		return
	}
	serverURL := event.Settings.ServerURL

	r.mu.Lock()
	r.clients[serverURL] = NewFhirResourceClient(serverURL, r.settings, r.Log)
	r.mu.Unlock()

	r.Log.Info("fhirClientRegistry.onStateChange rebuilt client",
		zap.String(constvars.LoggingServerURLKey, serverURL),
	)
}
