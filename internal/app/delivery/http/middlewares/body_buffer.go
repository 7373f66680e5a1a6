package middlewares

import (
	"bytes"
	"context"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/exceptions"
	"fauxhr-service/internal/pkg/utils"
	"io"
	"net/http"
)

// BodyBuffer reads the request body up to the configured limit, stores the
// raw bytes in the context and replaces the body so handlers can read it again.
func (m *Middlewares) BodyBuffer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reader := io.Reader(r.Body)
		if limit := m.InternalConfig.App.MaxRequestBodyInBytes; limit > 0 {
			reader = http.MaxBytesReader(w, r.Body, limit)
		}

		bodyBytes, err := io.ReadAll(reader)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrReadBody(err))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_RAW_BODY, bodyBytes)
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
