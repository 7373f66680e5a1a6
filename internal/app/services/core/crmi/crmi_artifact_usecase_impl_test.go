package crmi

import (
	"context"
	"errors"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/app/services/fhir_spark/resources"
	"fauxhr-service/internal/app/services/shared/appstate"
	"fauxhr-service/internal/pkg/exceptions"
	"fauxhr-service/internal/pkg/fhir_dto"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// artifactServer is a tiny in-memory FHIR endpoint for the authored types.
type artifactServer struct {
	*httptest.Server

	mu        sync.Mutex
	stored    map[string]string
	lastQuery string
	lastBody  []byte
}

func newArtifactServer(t *testing.T) *artifactServer {
	t.Helper()
	server := &artifactServer{stored: make(map[string]string)}
	server.Server = httptest.NewServer(http.HandlerFunc(server.serve))
	t.Cleanup(server.Close)
	return server
}

func (s *artifactServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	s.lastBody = body
	w.Header().Set("Content-Type", "application/fhir+json")

	switch r.Method {
	case http.MethodGet:
		if document, ok := s.stored[r.URL.Path]; ok {
			io.WriteString(w, document)
			return
		}
		if r.URL.Path == "/ActivityDefinition" || r.URL.Path == "/ChargeItemDefinition" {
			s.lastQuery = r.URL.RawQuery
			entries := ""
			for path, document := range s.stored {
				if len(path) > len(r.URL.Path) && path[:len(r.URL.Path)] == r.URL.Path {
					if entries != "" {
						entries += ","
					}
					entries += `{"resource":` + document + `}`
				}
			}
			io.WriteString(w, `{"resourceType":"Bundle","type":"searchset","entry":[`+entries+`]}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"resourceType":"OperationOutcome","issue":[{"severity":"error","code":"not-found","diagnostics":"Resource not found"}]}`)
	case http.MethodPost:
		var header fhir_dto.ResourceHeader
		json.Unmarshal(body, &header)
		var document map[string]interface{}
		json.Unmarshal(body, &document)
		document["id"] = "new-1"
		created, _ := json.Marshal(document)
		s.stored["/"+header.ResourceType+"/new-1"] = string(created)
		w.WriteHeader(http.StatusCreated)
		w.Write(created)
	case http.MethodPut:
		s.stored[r.URL.Path] = string(body)
		w.Write(body)
	case http.MethodDelete:
		if _, ok := s.stored[r.URL.Path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"resourceType":"OperationOutcome","issue":[{"severity":"error","code":"not-found","diagnostics":"gone"}]}`)
			return
		}
		delete(s.stored, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *artifactServer) put(path, document string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored[path] = document
}

func newTestUsecase(t *testing.T, serverURL string) contracts.CrmiArtifactUsecase {
	t.Helper()
	logger := zap.NewNop()
	state := appstate.NewAppState(serverURL, 2, 1, logger)
	registry := resources.NewFhirClientRegistry(resources.ClientSettings{RequestTimeout: 2 * time.Second}, state, logger)

	usecase := NewCrmiArtifactUsecase(registry, "https://example.org/fhir", logger).(*crmiArtifactUsecase)
	usecase.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return usecase
}

func statusCodeOf(t *testing.T, err error) int {
	t.Helper()
	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr), "expected CustomError, got %v", err)
	return customErr.StatusCode
}

func TestCrmiArtifactUsecase_CreateArtifact_Defaults(t *testing.T) {
	server := newArtifactServer(t)
	usecase := newTestUsecase(t, server.URL)

	created, err := usecase.CreateArtifact(context.Background(), "ActivityDefinition",
		json.RawMessage(`{"resourceType":"ActivityDefinition","name":"ACP Gesprek","title":"ACP gesprek"}`))
	require.NoError(t, err)

	assert.Equal(t, "new-1", created.GetID())
	assert.Equal(t, "draft", created.GetStatus())
	assert.Equal(t, "2024-05-01T12:00:00Z", created.GetDate())
	assert.Equal(t, "https://example.org/fhir/ActivityDefinition/acp-gesprek", created.GetUrl())
}

func TestCrmiArtifactUsecase_CreateArtifact_KeepsProvidedValues(t *testing.T) {
	server := newArtifactServer(t)
	usecase := newTestUsecase(t, server.URL)

	created, err := usecase.CreateArtifact(context.Background(), "ChargeItemDefinition",
		json.RawMessage(`{"resourceType":"ChargeItemDefinition","title":"Consult","status":"active","date":"2023-01-01","url":"https://acme.org/cid/consult"}`))
	require.NoError(t, err)

	assert.Equal(t, "active", created.GetStatus())
	assert.Equal(t, "2023-01-01", created.GetDate())
	assert.Equal(t, "https://acme.org/cid/consult", created.GetUrl())
}

func TestCrmiArtifactUsecase_CreateArtifact_Rejects(t *testing.T) {
	server := newArtifactServer(t)
	usecase := newTestUsecase(t, server.URL)

	tests := []struct {
		name         string
		artifactType string
		body         string
		status       int
	}{
		{"unsupported type", "PlanDefinition", `{"resourceType":"PlanDefinition"}`, http.StatusBadRequest},
		{"mismatched resourceType", "ActivityDefinition", `{"resourceType":"ChargeItemDefinition"}`, http.StatusBadRequest},
		{"invalid status", "ActivityDefinition", `{"resourceType":"ActivityDefinition","status":"published"}`, http.StatusBadRequest},
		{"malformed body", "ActivityDefinition", `{"resourceType":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := usecase.CreateArtifact(context.Background(), tt.artifactType, json.RawMessage(tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.status, statusCodeOf(t, err))
		})
	}
}

func TestCrmiArtifactUsecase_UpdateArtifact_StatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		stored  string
		target  string
		allowed bool
	}{
		{"draft to active", "draft", "active", true},
		{"active to retired", "active", "retired", true},
		{"active to draft", "active", "draft", false},
		{"retired to active", "retired", "active", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newArtifactServer(t)
			server.put("/ActivityDefinition/AD1", `{"resourceType":"ActivityDefinition","id":"AD1","status":"`+tt.stored+`"}`)
			usecase := newTestUsecase(t, server.URL)

			updated, err := usecase.UpdateArtifact(context.Background(), "ActivityDefinition", "AD1",
				json.RawMessage(`{"resourceType":"ActivityDefinition","status":"`+tt.target+`","date":"2000-01-01"}`))

			if !tt.allowed {
				require.Error(t, err)
				assert.Equal(t, http.StatusUnprocessableEntity, statusCodeOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "AD1", updated.GetID())
			assert.Equal(t, tt.target, updated.GetStatus())
			assert.Equal(t, "2024-05-01T12:00:00Z", updated.GetDate())
		})
	}
}

func TestCrmiArtifactUsecase_FindArtifactByID(t *testing.T) {
	server := newArtifactServer(t)
	server.put("/ChargeItemDefinition/CID1", `{"resourceType":"ChargeItemDefinition","id":"CID1","status":"active","title":"Consult",
		"extension":[{"url":"http://hl7.org/fhir/StructureDefinition/artifact-copyrightLabel","valueString":"© Acme"}]}`)
	usecase := newTestUsecase(t, server.URL)

	artifact, err := usecase.FindArtifactByID(context.Background(), "ChargeItemDefinition", "CID1")
	require.NoError(t, err)
	assert.Equal(t, "Consult", artifact.GetName())
	assert.Equal(t, "© Acme", CopyrightLabel(artifact))

	_, err = usecase.FindArtifactByID(context.Background(), "ChargeItemDefinition", "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusCodeOf(t, err))
}

func TestCrmiArtifactUsecase_SearchArtifacts(t *testing.T) {
	server := newArtifactServer(t)
	server.put("/ActivityDefinition/AD1", `{"resourceType":"ActivityDefinition","id":"AD1","status":"active","title":"ACP"}`)
	usecase := newTestUsecase(t, server.URL)

	artifacts, err := usecase.SearchArtifacts(context.Background(), "ActivityDefinition", " ACP ", "active")
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "AD1", artifacts[0].GetID())
	assert.Equal(t, "_count=50&_sort=-_lastUpdated&status=active&title%3Acontains=ACP", server.lastQuery)

	_, err = usecase.SearchArtifacts(context.Background(), "ActivityDefinition", "", "unknown")
	require.NoError(t, err)
	assert.Equal(t, "_count=50&_sort=-_lastUpdated", server.lastQuery)
}

func TestCrmiArtifactUsecase_DeleteArtifact(t *testing.T) {
	server := newArtifactServer(t)
	server.put("/ActivityDefinition/AD1", `{"resourceType":"ActivityDefinition","id":"AD1","status":"draft"}`)
	usecase := newTestUsecase(t, server.URL)

	require.NoError(t, usecase.DeleteArtifact(context.Background(), "ActivityDefinition", "AD1"))

	err := usecase.DeleteArtifact(context.Background(), "ActivityDefinition", "AD1")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, statusCodeOf(t, err))
}
