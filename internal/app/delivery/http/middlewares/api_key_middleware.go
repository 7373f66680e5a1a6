package middlewares

import (
	"context"
	"crypto/subtle"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/exceptions"
	"fauxhr-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

// APIKeyAuth marks requests carrying the configured write key. Requests
// without the header pass through unmarked.
func (m *Middlewares) APIKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(constvars.HeaderAPIKey)
		if apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		expected := m.InternalConfig.App.WriteAPIKey
		if expected == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		m.Log.Debug("API key authentication successful",
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
		)

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_API_KEY_AUTH_KEY, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireWriteAPIKey rejects unmarked requests when a write key is configured.
func (m *Middlewares) RequireWriteAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.InternalConfig.App.WriteAPIKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		if authenticated, ok := r.Context().Value(constvars.CONTEXT_API_KEY_AUTH_KEY).(bool); !ok || !authenticated {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrMissingAPIKey(nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}
