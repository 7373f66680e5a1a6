package routers

import (
	"bytes"
	"context"
	"fauxhr-service/internal/app/config"
	"fauxhr-service/internal/app/delivery/http/controllers"
	"fauxhr-service/internal/app/delivery/http/middlewares"
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/app/services/core/acp"
	"fauxhr-service/internal/app/services/shared/appstate"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/exceptions"
	"fauxhr-service/internal/pkg/fhir_dto"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/samply/golang-fhir-models/fhir-models/fhir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAPIKey = "test-write-api-key-12345"

type MockAcpQueryUsecase struct {
	mock.Mock
}

func (m *MockAcpQueryUsecase) Catalog(patientID string) []*models.AcpQuery {
	args := m.Called(patientID)
	return args.Get(0).([]*models.AcpQuery)
}

func (m *MockAcpQueryUsecase) ExecuteQuery(ctx context.Context, query *models.AcpQuery, serverURL string) {
	m.Called(ctx, query, serverURL)
}

func (m *MockAcpQueryUsecase) ExecuteAll(ctx context.Context, patientID, serverURL string) ([]*models.AcpQuery, *models.ResolveResult, error) {
	args := m.Called(ctx, patientID, serverURL)
	resolved, _ := args.Get(1).(*models.ResolveResult)
	return args.Get(0).([]*models.AcpQuery), resolved, args.Error(2)
}

func (m *MockAcpQueryUsecase) ResolveResources(ctx context.Context, serverURL string, depth int, resources []json.RawMessage) *models.ResolveResult {
	args := m.Called(ctx, serverURL, depth, resources)
	return args.Get(0).(*models.ResolveResult)
}

func (m *MockAcpQueryUsecase) FindPatientIDByIdentifier(ctx context.Context, serverURL, system, value string) (string, error) {
	args := m.Called(ctx, serverURL, system, value)
	return args.String(0), args.Error(1)
}

type MockAcpIntegratedDataUsecase struct {
	mock.Mock
}

func (m *MockAcpIntegratedDataUsecase) LoadIntegratedData(ctx context.Context, currentPatient *fhir.Patient) (*models.IntegratedDataset, error) {
	args := m.Called(ctx, currentPatient)
	dataset, _ := args.Get(0).(*models.IntegratedDataset)
	return dataset, args.Error(1)
}

type MockCrmiArtifactUsecase struct {
	mock.Mock
}

func (m *MockCrmiArtifactUsecase) SearchArtifacts(ctx context.Context, artifactType, title, status string) ([]fhir_dto.Artifact, error) {
	args := m.Called(ctx, artifactType, title, status)
	artifacts, _ := args.Get(0).([]fhir_dto.Artifact)
	return artifacts, args.Error(1)
}

func (m *MockCrmiArtifactUsecase) FindArtifactByID(ctx context.Context, artifactType, artifactID string) (fhir_dto.Artifact, error) {
	args := m.Called(ctx, artifactType, artifactID)
	artifact, _ := args.Get(0).(fhir_dto.Artifact)
	return artifact, args.Error(1)
}

func (m *MockCrmiArtifactUsecase) CreateArtifact(ctx context.Context, artifactType string, body json.RawMessage) (fhir_dto.Artifact, error) {
	args := m.Called(ctx, artifactType, body)
	artifact, _ := args.Get(0).(fhir_dto.Artifact)
	return artifact, args.Error(1)
}

func (m *MockCrmiArtifactUsecase) UpdateArtifact(ctx context.Context, artifactType, artifactID string, body json.RawMessage) (fhir_dto.Artifact, error) {
	args := m.Called(ctx, artifactType, artifactID, body)
	artifact, _ := args.Get(0).(fhir_dto.Artifact)
	return artifact, args.Error(1)
}

func (m *MockCrmiArtifactUsecase) DeleteArtifact(ctx context.Context, artifactType, artifactID string) error {
	args := m.Called(ctx, artifactType, artifactID)
	return args.Error(0)
}

func (m *MockCrmiArtifactUsecase) StatusTransitions(status string) []string {
	args := m.Called(status)
	return args.Get(0).([]string)
}

type MockTerminologyUsecase struct {
	mock.Mock
}

func (m *MockTerminologyUsecase) SearchValueSets(ctx context.Context, name, status string) ([]fhir_dto.ValueSet, error) {
	args := m.Called(ctx, name, status)
	valueSets, _ := args.Get(0).([]fhir_dto.ValueSet)
	return valueSets, args.Error(1)
}

func (m *MockTerminologyUsecase) FindValueSetByID(ctx context.Context, valueSetID string) (*fhir_dto.ValueSet, error) {
	args := m.Called(ctx, valueSetID)
	valueSet, _ := args.Get(0).(*fhir_dto.ValueSet)
	return valueSet, args.Error(1)
}

func (m *MockTerminologyUsecase) ExpandValueSet(ctx context.Context, urlOrID string, useCache bool) (*fhir_dto.ValueSet, error) {
	args := m.Called(ctx, urlOrID, useCache)
	valueSet, _ := args.Get(0).(*fhir_dto.ValueSet)
	return valueSet, args.Error(1)
}

func (m *MockTerminologyUsecase) ValueSetConcepts(ctx context.Context, urlOrID string) ([]models.Concept, error) {
	args := m.Called(ctx, urlOrID)
	concepts, _ := args.Get(0).([]models.Concept)
	return concepts, args.Error(1)
}

func (m *MockTerminologyUsecase) ClearExpansionCache() {
	m.Called()
}

func (m *MockTerminologyUsecase) SearchCodeSystems(ctx context.Context, name, status string) ([]fhir_dto.CodeSystem, error) {
	args := m.Called(ctx, name, status)
	codeSystems, _ := args.Get(0).([]fhir_dto.CodeSystem)
	return codeSystems, args.Error(1)
}

func (m *MockTerminologyUsecase) FindCodeSystem(ctx context.Context, urlOrID string) (*fhir_dto.CodeSystem, error) {
	args := m.Called(ctx, urlOrID)
	codeSystem, _ := args.Get(0).(*fhir_dto.CodeSystem)
	return codeSystem, args.Error(1)
}

func (m *MockTerminologyUsecase) CodeSystemConcepts(ctx context.Context, urlOrID string) ([]models.Concept, error) {
	args := m.Called(ctx, urlOrID)
	concepts, _ := args.Get(0).([]models.Concept)
	return concepts, args.Error(1)
}

type MockValueSetBindingUsecase struct {
	mock.Mock
}

func (m *MockValueSetBindingUsecase) Bindings(ctx context.Context) ([]models.ValueSetBinding, error) {
	args := m.Called(ctx)
	bindings, _ := args.Get(0).([]models.ValueSetBinding)
	return bindings, args.Error(1)
}

func (m *MockValueSetBindingUsecase) FindBinding(ctx context.Context, elementPath string) (*models.ValueSetBinding, error) {
	args := m.Called(ctx, elementPath)
	binding, _ := args.Get(0).(*models.ValueSetBinding)
	return binding, args.Error(1)
}

func (m *MockValueSetBindingUsecase) SetBinding(ctx context.Context, elementPath, valueSetUrl, displayName string) (*models.ValueSetBinding, error) {
	args := m.Called(ctx, elementPath, valueSetUrl, displayName)
	binding, _ := args.Get(0).(*models.ValueSetBinding)
	return binding, args.Error(1)
}

func (m *MockValueSetBindingUsecase) RemoveBinding(ctx context.Context, elementPath string) error {
	args := m.Called(ctx, elementPath)
	return args.Error(0)
}

func (m *MockValueSetBindingUsecase) BoundCodes(ctx context.Context, elementPath string) ([]models.BoundCode, error) {
	args := m.Called(ctx, elementPath)
	codes, _ := args.Get(0).([]models.BoundCode)
	return codes, args.Error(1)
}

func (m *MockValueSetBindingUsecase) CodesFromValueSet(ctx context.Context, url string) []models.BoundCode {
	args := m.Called(ctx, url)
	codes, _ := args.Get(0).([]models.BoundCode)
	return codes
}

type MockPractitionerContextUsecase struct {
	mock.Mock
}

func (m *MockPractitionerContextUsecase) Restore(ctx context.Context) (models.PractitionerContext, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.PractitionerContext), args.Error(1)
}

func (m *MockPractitionerContextUsecase) Current() models.PractitionerContext {
	args := m.Called()
	return args.Get(0).(models.PractitionerContext)
}

func (m *MockPractitionerContextUsecase) SetPractitioner(ctx context.Context, practitioner, role json.RawMessage) (models.PractitionerContext, error) {
	args := m.Called(ctx, practitioner, role)
	return args.Get(0).(models.PractitionerContext), args.Error(1)
}

func (m *MockPractitionerContextUsecase) ResetToDefault(ctx context.Context) (models.PractitionerContext, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.PractitionerContext), args.Error(1)
}

type testRouter struct {
	router      *chi.Mux
	queries     *MockAcpQueryUsecase
	integrated  *MockAcpIntegratedDataUsecase
	crmi        *MockCrmiArtifactUsecase
	terminology *MockTerminologyUsecase
	bindings    *MockValueSetBindingUsecase
	author      *MockPractitionerContextUsecase
	state       *appstate.AppState
	writeAPIKey string
}

func newTestRouter(t *testing.T, writeAPIKey string) *testRouter {
	t.Helper()
	logger := zap.NewNop()
	internalConfig := &config.InternalConfig{
		App: config.App{
			EndpointPrefix:        "api",
			Version:               "v1",
			MaxRequests:           1000,
			APIKeyMaxRequests:     1000,
			MaxRequestBodyInBytes: 1 << 20,
			WriteAPIKey:           writeAPIKey,
		},
	}

	tr := &testRouter{
		router:      chi.NewRouter(),
		queries:     new(MockAcpQueryUsecase),
		integrated:  new(MockAcpIntegratedDataUsecase),
		crmi:        new(MockCrmiArtifactUsecase),
		terminology: new(MockTerminologyUsecase),
		bindings:    new(MockValueSetBindingUsecase),
		author:      new(MockPractitionerContextUsecase),
		state:       appstate.NewAppState("https://server.fire.ly", 2, 4, logger),
		writeAPIKey: writeAPIKey,
	}

	acpController := &controllers.AcpController{
		Log:                      logger,
		AcpQueryUsecase:          tr.queries,
		AcpIntegratedDataUsecase: tr.integrated,
		State:                    tr.state,
	}
	settingsController := &controllers.SettingsController{Log: logger, State: tr.state, PractitionerContextUsecase: tr.author}
	crmiController := &controllers.CrmiController{Log: logger, CrmiArtifactUsecase: tr.crmi}
	terminologyController := &controllers.TerminologyController{
		Log:                    logger,
		TerminologyUsecase:     tr.terminology,
		ValueSetBindingUsecase: tr.bindings,
	}

	SetupRoutes(tr.router, internalConfig, middlewares.NewMiddlewares(logger, internalConfig),
		acpController, settingsController, crmiController, terminologyController)
	return tr
}

func (tr *testRouter) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	tr.router.ServeHTTP(rr, req)
	return rr
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body
}

func TestAcpRoutes_GetQueries(t *testing.T) {
	tr := newTestRouter(t, "")
	tr.queries.On("Catalog", "P1").Return(acp.BuildCatalog("P1"))

	rr := tr.do("GET", "/api/v1/acp/patients/P1/queries", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(constvars.HeaderXRequestID))

	var response models.AcpQueriesResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &response))
	assert.Equal(t, "P1", response.PatientID)
	require.Len(t, response.Queries, 8)
	assert.Equal(t, 0, response.Queries[0].Index)
	assert.Equal(t, models.QueryStatusPending, response.Queries[0].Status)
	tr.queries.AssertExpectations(t)
}

func TestAcpRoutes_RunQueries(t *testing.T) {
	tr := newTestRouter(t, "")
	queries := acp.BuildCatalog("P1")
	resolved := &models.ResolveResult{Status: models.QueryStatusSuccess, References: []string{"Practitioner/DR1"}, Total: 1, Passes: 1}

	t.Run("empty body uses the current server", func(t *testing.T) {
		tr.queries.On("ExecuteAll", mock.Anything, "P1", "").Return(queries, resolved, nil).Once()

		rr := tr.do("POST", "/api/v1/acp/patients/P1/queries/run", "")

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var response models.RunAcpQueriesResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &response))
		assert.Equal(t, "https://server.fire.ly", response.ServerURL)
		require.NotNil(t, response.Resolve)
		assert.Equal(t, []string{"Practitioner/DR1"}, response.Resolve.References)
	})

	t.Run("alternate server", func(t *testing.T) {
		tr.queries.On("ExecuteAll", mock.Anything, "P1", "http://hapi.fhir.org/baseR4").Return(queries, resolved, nil).Once()

		rr := tr.do("POST", "/api/v1/acp/patients/P1/queries/run", `{"server_url":"http://hapi.fhir.org/baseR4"}`)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	})

	t.Run("invalid server url", func(t *testing.T) {
		rr := tr.do("POST", "/api/v1/acp/patients/P1/queries/run", `{"server_url":"not a url"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := tr.do("POST", "/api/v1/acp/patients/P1/queries/run", `{"server_url":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	tr.queries.AssertExpectations(t)
}

func TestAcpRoutes_RunQuery(t *testing.T) {
	tr := newTestRouter(t, "")
	queries := acp.BuildCatalog("P1")
	tr.queries.On("Catalog", "P1").Return(queries)
	tr.queries.On("ExecuteQuery", mock.Anything, queries[2], "").Run(func(args mock.Arguments) {
		query := args.Get(1).(*models.AcpQuery)
		query.TryStart()
		query.Succeed(&fhir_dto.FHIRBundle{ResourceType: "Bundle", Type: "searchset"})
	}).Return().Once()

	rr := tr.do("POST", "/api/v1/acp/patients/P1/queries/2/run", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var view models.AcpQueryView
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &view))
	assert.Equal(t, 2, view.Index)
	assert.Equal(t, models.QueryStatusSuccess, view.Status)
	require.NotNil(t, view.Result)

	t.Run("index out of range", func(t *testing.T) {
		rr := tr.do("POST", "/api/v1/acp/patients/P1/queries/8/run", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("index not a number", func(t *testing.T) {
		rr := tr.do("POST", "/api/v1/acp/patients/P1/queries/first/run", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
	tr.queries.AssertExpectations(t)
}

func TestAcpRoutes_ResolveReferences(t *testing.T) {
	tr := newTestRouter(t, "")
	fetched, err := models.DecodeClinicalResource([]byte(`{"resourceType":"Practitioner","id":"DR1"}`))
	require.NoError(t, err)
	result := &models.ResolveResult{
		Status:     models.QueryStatusSuccess,
		References: []string{"Practitioner/DR1"},
		Resources:  []*models.ClinicalResource{fetched},
		Total:      1,
		Passes:     1,
	}
	tr.queries.On("ResolveResources", mock.Anything, "", 3, mock.Anything).Return(result).Once()

	rr := tr.do("POST", "/api/v1/acp/references/resolve",
		`{"resources":[{"resourceType":"Procedure","id":"PR1","performer":[{"actor":{"reference":"Practitioner/DR1"}}]}],"depth":3}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var response struct {
		Result    models.ResolveResult     `json:"result"`
		Resources []map[string]interface{} `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &response))
	assert.Equal(t, 1, response.Result.Total)
	require.Len(t, response.Resources, 1)
	assert.Equal(t, "DR1", response.Resources[0]["id"])

	t.Run("resources are required", func(t *testing.T) {
		rr := tr.do("POST", "/api/v1/acp/references/resolve", `{"resources":[]}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
	tr.queries.AssertExpectations(t)
}

func TestAcpRoutes_GetOverview(t *testing.T) {
	tr := newTestRouter(t, "")
	current := &fhir.Patient{Id: ptr("P1")}
	tr.state.SetPatient(current)

	dataset := models.NewIntegratedDataset()
	dataset.CurrentPatient = current

	tr.integrated.On("LoadIntegratedData", mock.Anything, current).Return(dataset, nil).Once()
	rr := tr.do("GET", "/api/v1/acp/patients/P1/overview", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	tr.integrated.On("LoadIntegratedData", mock.Anything, mock.MatchedBy(func(p *fhir.Patient) bool {
		return p != nil && p.Id != nil && *p.Id == "P2"
	})).Return(models.NewIntegratedDataset(), nil).Once()
	rr = tr.do("GET", "/api/v1/acp/patients/P2/overview", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &body))
	assert.Equal(t, []interface{}{}, body["acp_encounters"])

	tr.integrated.On("LoadIntegratedData", mock.Anything, mock.Anything).Return(nil, exceptions.ErrCacheKeys(nil)).Once()
	rr = tr.do("GET", "/api/v1/acp/patients/P3/overview", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	tr.integrated.AssertExpectations(t)
}

func TestAcpRoutes_FindPatientByIdentifier(t *testing.T) {
	tr := newTestRouter(t, "")
	tr.queries.On("FindPatientIDByIdentifier", mock.Anything, "", "http://fhir.nl/fhir/NamingSystem/bsn", "999911120").Return("P42", nil).Once()

	rr := tr.do("GET", "/api/v1/acp/patients/lookup?system=http://fhir.nl/fhir/NamingSystem/bsn&value=999911120", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"patient_id":"P42"`)
	assert.Contains(t, rr.Body.String(), `"found":true`)

	rr = tr.do("GET", "/api/v1/acp/patients/lookup?system=urn:sys", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	tr.queries.AssertExpectations(t)
}

func TestSettingsRoutes(t *testing.T) {
	t.Run("get and update", func(t *testing.T) {
		tr := newTestRouter(t, "")

		rr := tr.do("GET", "/api/v1/settings/", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"server_url":"https://server.fire.ly"`)

		rr = tr.do("PUT", "/api/v1/settings/", `{"server_url":"http://hapi.fhir.org/baseR4/","reference_resolution_depth":9,"patient_id":"P7"}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		settings := tr.state.Settings()
		assert.Equal(t, "http://hapi.fhir.org/baseR4", settings.ServerURL)
		assert.Equal(t, constvars.AcpReferenceResolutionMaxDepth, settings.ReferenceResolutionDepth)
		require.NotNil(t, tr.state.Patient())
		assert.Equal(t, "P7", *tr.state.Patient().Id)

		rr = tr.do("PUT", "/api/v1/settings/", `{"patient_id":""}`)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, tr.state.Patient())
	})

	t.Run("invalid server url keeps settings", func(t *testing.T) {
		tr := newTestRouter(t, "")
		rr := tr.do("PUT", "/api/v1/settings/", `{"server_url":"ftp://example.org"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "https://server.fire.ly", tr.state.Settings().ServerURL)
	})

	t.Run("write key required when configured", func(t *testing.T) {
		tr := newTestRouter(t, testAPIKey)
		rr := tr.do("PUT", "/api/v1/settings/", `{"reference_resolution_depth":3}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, 2, tr.state.Settings().ReferenceResolutionDepth)

		rr = tr.do("PUT", "/api/v1/settings/", `{"reference_resolution_depth":3}`, constvars.HeaderAPIKey, testAPIKey)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 3, tr.state.Settings().ReferenceResolutionDepth)

		rr = tr.do("GET", "/api/v1/settings/", "")
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestCrmiRoutes(t *testing.T) {
	tr := newTestRouter(t, testAPIKey)
	artifact := &fhir_dto.ActivityDefinition{ResourceType: "ActivityDefinition", ID: "AD1", Status: "draft"}

	t.Run("search", func(t *testing.T) {
		tr.crmi.On("SearchArtifacts", mock.Anything, "ActivityDefinition", "acp", "active").
			Return([]fhir_dto.Artifact{artifact}, nil).Once()

		rr := tr.do("GET", "/api/v1/crmi/ActivityDefinition/?title=acp&status=active", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), `"total":1`)
	})

	t.Run("read not found", func(t *testing.T) {
		tr.crmi.On("FindArtifactByID", mock.Anything, "ActivityDefinition", "missing").
			Return(nil, exceptions.ErrNoDataFHIRResource(nil, "ActivityDefinition")).Once()

		rr := tr.do("GET", "/api/v1/crmi/ActivityDefinition/missing", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("create passes the raw body", func(t *testing.T) {
		body := `{"resourceType":"ActivityDefinition","title":"ACP"}`
		tr.crmi.On("CreateArtifact", mock.Anything, "ActivityDefinition", mock.MatchedBy(func(raw json.RawMessage) bool {
			return strings.TrimSpace(string(raw)) == body
		})).Return(artifact, nil).Once()

		rr := tr.do("POST", "/api/v1/crmi/ActivityDefinition/", body, constvars.HeaderAPIKey, testAPIKey)
		assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	})

	t.Run("create without key", func(t *testing.T) {
		rr := tr.do("POST", "/api/v1/crmi/ActivityDefinition/", `{}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("update rejected transition", func(t *testing.T) {
		message := "An active artifact cannot transition back to draft. Create a new version instead."
		tr.crmi.On("UpdateArtifact", mock.Anything, "ActivityDefinition", "AD1", mock.Anything).
			Return(nil, exceptions.ErrInvalidStatusTransition(nil, message)).Once()

		rr := tr.do("PUT", "/api/v1/crmi/ActivityDefinition/AD1", `{"resourceType":"ActivityDefinition","status":"draft"}`, constvars.HeaderAPIKey, testAPIKey)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), message)
	})

	t.Run("delete", func(t *testing.T) {
		tr.crmi.On("DeleteArtifact", mock.Anything, "ChargeItemDefinition", "CID1").Return(nil).Once()

		rr := tr.do("DELETE", "/api/v1/crmi/ChargeItemDefinition/CID1", "", constvars.HeaderAPIKey, testAPIKey)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("status transitions", func(t *testing.T) {
		tr.crmi.On("StatusTransitions", "active").Return([]string{"active", "retired"}).Once()

		rr := tr.do("GET", "/api/v1/crmi/status-transitions/active", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"transitions":["active","retired"]`)
	})

	tr.crmi.AssertExpectations(t)
}

func TestTerminologyRoutes(t *testing.T) {
	tr := newTestRouter(t, testAPIKey)
	advanceDirectives := "http://example.org/fhir/ValueSet/advance-directive-types"

	t.Run("search value sets is not an artifact route", func(t *testing.T) {
		tr.terminology.On("SearchValueSets", mock.Anything, "advance", "").
			Return([]fhir_dto.ValueSet{{ResourceType: "ValueSet", ID: "VS1"}}, nil).Once()

		rr := tr.do("GET", "/api/v1/crmi/terminology/value-sets?name=advance", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), `"total":1`)
	})

	t.Run("expand by canonical url without cache", func(t *testing.T) {
		tr.terminology.On("ExpandValueSet", mock.Anything, advanceDirectives, false).
			Return(&fhir_dto.ValueSet{ResourceType: "ValueSet", ID: "VS1"}, nil).Once()

		rr := tr.do("GET", "/api/v1/crmi/terminology/expand?url="+advanceDirectives+"&no_cache=true", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	})

	t.Run("expand rejects a bad no_cache flag", func(t *testing.T) {
		rr := tr.do("GET", "/api/v1/crmi/terminology/expand?url=VS1&no_cache=maybe", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown value set", func(t *testing.T) {
		tr.terminology.On("ValueSetConcepts", mock.Anything, "missing").
			Return(nil, exceptions.ErrTerminologyNotFound(nil, "missing")).Once()

		rr := tr.do("GET", "/api/v1/crmi/terminology/concepts?url=missing", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("code system concepts", func(t *testing.T) {
		tr.terminology.On("CodeSystemConcepts", mock.Anything, "CS1").
			Return([]models.Concept{{Code: "a", Display: "A"}, {Code: "a1", Display: "A > A1"}}, nil).Once()

		rr := tr.do("GET", "/api/v1/crmi/terminology/code-systems/CS1/concepts", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), `"display":"A > A1"`)
	})

	t.Run("clearing the cache needs the write key", func(t *testing.T) {
		rr := tr.do("DELETE", "/api/v1/crmi/terminology/expansions", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		tr.terminology.On("ClearExpansionCache").Return().Once()
		rr = tr.do("DELETE", "/api/v1/crmi/terminology/expansions", "", constvars.HeaderAPIKey, testAPIKey)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	tr.terminology.AssertExpectations(t)
}

func TestBindingRoutes(t *testing.T) {
	tr := newTestRouter(t, testAPIKey)
	url := "http://example.org/fhir/ValueSet/procedure-codes"
	binding := &models.ValueSetBinding{ElementPath: "Procedure.code", ValueSetUrl: url, DisplayName: "Procedure codes"}

	t.Run("list", func(t *testing.T) {
		tr.bindings.On("Bindings", mock.Anything).Return([]models.ValueSetBinding{*binding}, nil).Once()

		rr := tr.do("GET", "/api/v1/crmi/bindings/", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), `"element_path":"Procedure.code"`)
	})

	t.Run("set", func(t *testing.T) {
		tr.bindings.On("SetBinding", mock.Anything, "Procedure.code", url, "Procedure codes").Return(binding, nil).Once()

		rr := tr.do("PUT", "/api/v1/crmi/bindings/Procedure.code",
			`{"value_set_url":"`+url+`","display_name":"Procedure codes"}`, constvars.HeaderAPIKey, testAPIKey)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	})

	t.Run("set requires a value set url", func(t *testing.T) {
		rr := tr.do("PUT", "/api/v1/crmi/bindings/Procedure.code", `{"display_name":"x"}`, constvars.HeaderAPIKey, testAPIKey)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unbound path", func(t *testing.T) {
		tr.bindings.On("FindBinding", mock.Anything, "Goal.description").
			Return(nil, exceptions.ErrValueSetBindingNotFound(nil, "Goal.description")).Once()

		rr := tr.do("GET", "/api/v1/crmi/bindings/Goal.description", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("bound codes", func(t *testing.T) {
		tr.bindings.On("BoundCodes", mock.Anything, "Procedure.code").
			Return([]models.BoundCode{{System: "http://snomed.info/sct", Code: "713603004", Display: "Advance care planning"}}, nil).Once()

		rr := tr.do("GET", "/api/v1/crmi/bindings/Procedure.code/codes", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), `"code":"713603004"`)
	})

	t.Run("remove without key", func(t *testing.T) {
		rr := tr.do("DELETE", "/api/v1/crmi/bindings/Procedure.code", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("remove", func(t *testing.T) {
		tr.bindings.On("RemoveBinding", mock.Anything, "Procedure.code").Return(nil).Once()

		rr := tr.do("DELETE", "/api/v1/crmi/bindings/Procedure.code", "", constvars.HeaderAPIKey, testAPIKey)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("codes straight from a value set", func(t *testing.T) {
		tr.bindings.On("CodesFromValueSet", mock.Anything, url).Return([]models.BoundCode{}).Once()

		rr := tr.do("GET", "/api/v1/crmi/terminology/codes?url="+url, "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), `"total":0`)
	})

	tr.bindings.AssertExpectations(t)
}

func TestPractitionerRoutes(t *testing.T) {
	tr := newTestRouter(t, testAPIKey)
	current := models.PractitionerContext{
		Practitioner:     &fhir.Practitioner{Id: ptr("nl-core-HealthProfessional-Practitioner-01")},
		OrganizationName: "Leiderdorp University Medical Center",
		OrganizationID:   "nl-core-organization-01",
	}

	t.Run("get", func(t *testing.T) {
		tr.author.On("Current").Return(current).Once()

		rr := tr.do("GET", "/api/v1/settings/practitioner", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), `"organization_id":"nl-core-organization-01"`)
	})

	t.Run("update", func(t *testing.T) {
		body := `{"practitioner":{"resourceType":"Practitioner","id":"DR2"}}`
		tr.author.On("SetPractitioner", mock.Anything, mock.MatchedBy(func(raw json.RawMessage) bool {
			return strings.Contains(string(raw), `"DR2"`)
		}), mock.Anything).Return(current, nil).Once()

		rr := tr.do("PUT", "/api/v1/settings/practitioner", body, constvars.HeaderAPIKey, testAPIKey)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	})

	t.Run("update requires a practitioner", func(t *testing.T) {
		rr := tr.do("PUT", "/api/v1/settings/practitioner", `{}`, constvars.HeaderAPIKey, testAPIKey)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("reset", func(t *testing.T) {
		tr.author.On("ResetToDefault", mock.Anything).Return(current, nil).Once()

		rr := tr.do("DELETE", "/api/v1/settings/practitioner", "", constvars.HeaderAPIKey, testAPIKey)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	tr.author.AssertExpectations(t)
}

func ptr[T any](v T) *T { return &v }
