package acp

import (
	"context"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/app/services/shared/cache"
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	emptyBundle        = `{"resourceType":"Bundle","type":"searchset","total":0}`
	goalsOutcomeBundle = `{"resourceType":"Bundle","type":"searchset","total":1,"entry":[{"resource":{"resourceType":"OperationOutcome","issue":[{"severity":"error","code":"not-found","diagnostics":"not-found"}]}}]}`
	procedureBundle    = `{"resourceType":"Bundle","type":"searchset","total":2,"entry":[
		{"resource":{"resourceType":"Procedure","id":"PR1","meta":{"lastUpdated":"2024-06-01T00:00:00Z"},"status":"completed",
			"encounter":{"reference":"Encounter/E1"},
			"performer":[{"actor":{"reference":"Practitioner/DR1","display":"Dr. Jansen"}}]}},
		{"resource":{"resourceType":"Encounter","id":"E1","meta":{"lastUpdated":"2024-06-01T00:00:00Z"},"status":"finished"}}
	]}`
	practitionerDR1 = `{"resourceType":"Practitioner","id":"DR1","meta":{"lastUpdated":"2024-01-01T00:00:00Z"}}`
)

func newTestQueryUsecase(env *testEnv) contracts.AcpQueryUsecase {
	logger := zap.NewNop()
	resolver := NewReferenceResolver(env.registry, env.cache, env.writer, logger)
	return NewAcpQueryUsecase(env.registry, env.writer, resolver, env.state, logger)
}

func queryByType(queries []*models.AcpQuery, resourceType string) *models.AcpQuery {
	for _, query := range queries {
		if query.ResourceType == resourceType {
			return query
		}
	}
	return nil
}

func storedDocument(t *testing.T, resourceCache contracts.ResourceCache, key string) map[string]interface{} {
	t.Helper()
	value, found, err := resourceCache.GetString(context.Background(), key)
	require.NoError(t, err)
	require.True(t, found, "expected cache entry %s", key)

	var document map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(value), &document))
	return document
}

func TestAcpQueryUsecase_ExecuteQuery_OperationOutcomeIsError(t *testing.T) {
	fhirServer := newFakeFhirServer(t)
	fhirServer.handle("/Goal", http.StatusOK, goalsOutcomeBundle)
	env := newTestEnv(t, fhirServer.URL, 2)
	usecase := newTestQueryUsecase(env)

	goals := queryByType(usecase.Catalog("P1"), "Goal")
	require.NotNil(t, goals)

	usecase.ExecuteQuery(context.Background(), goals, "")

	assert.Equal(t, models.QueryStatusError, goals.Status())
	assert.Contains(t, goals.ErrorMessage(), "error: not-found")
	require.NotNil(t, goals.Result())
	assert.Len(t, goals.Result().Entry, 1)

	keys, err := env.cache.Keys(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "127_0_0_1_OperationOutcome_"))
}

func TestAcpQueryUsecase_ExecuteQuery_WholeResponseOutcome(t *testing.T) {
	fhirServer := newFakeFhirServer(t)
	fhirServer.handle("/Consent", http.StatusBadRequest,
		`{"resourceType":"OperationOutcome","issue":[{"severity":"fatal","code":"invalid","diagnostics":"bad scope"}]}`)
	env := newTestEnv(t, fhirServer.URL, 2)
	usecase := newTestQueryUsecase(env)

	consents := queryByType(usecase.Catalog("P1"), "Consent")
	usecase.ExecuteQuery(context.Background(), consents, "")

	assert.Equal(t, models.QueryStatusError, consents.Status())
	assert.Equal(t, "fatal: bad scope", consents.ErrorMessage())
}

func TestAcpQueryUsecase_ExecuteQuery_EmptyBundleIsSuccess(t *testing.T) {
	fhirServer := newFakeFhirServer(t)
	fhirServer.handle("/Observation", http.StatusOK, emptyBundle)
	env := newTestEnv(t, fhirServer.URL, 2)
	usecase := newTestQueryUsecase(env)

	observations := queryByType(usecase.Catalog("P1"), "Observation")
	usecase.ExecuteQuery(context.Background(), observations, "")

	assert.Equal(t, models.QueryStatusSuccess, observations.Status())
	assert.Empty(t, observations.ErrorMessage())
	assert.Equal(t, 0, observations.View(0, false).Total)
}

func TestAcpQueryUsecase_ExecuteQuery_PersistsWithSource(t *testing.T) {
	fhirServer := newFakeFhirServer(t)
	fhirServer.handle("/Procedure", http.StatusOK, procedureBundle)
	env := newTestEnv(t, fhirServer.URL, 2)
	usecase := newTestQueryUsecase(env)

	procedures := queryByType(usecase.Catalog("P1"), "Procedure")
	usecase.ExecuteQuery(context.Background(), procedures, "")
	require.Equal(t, models.QueryStatusSuccess, procedures.Status())

	document := storedDocument(t, env.cache, "127_0_0_1_Procedure_PR1")
	meta, ok := document["meta"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, fhirServer.URL, meta["source"])
	assert.Equal(t, "2024-06-01T00:00:00Z", meta["lastUpdated"])

	encounter := storedDocument(t, env.cache, "127_0_0_1_Encounter_E1")
	assert.Equal(t, "Encounter", encounter["resourceType"])
}

func TestAcpQueryUsecase_ExecuteQuery_KeepsNewerCachedCopy(t *testing.T) {
	fhirServer := newFakeFhirServer(t)
	fhirServer.handle("/Procedure", http.StatusOK, procedureBundle)
	env := newTestEnv(t, fhirServer.URL, 2)
	usecase := newTestQueryUsecase(env)

	newer := `{"resourceType":"Procedure","id":"PR1","meta":{"lastUpdated":"2025-01-01T00:00:00Z"},"status":"completed"}`
	seedCache(t, env.cache, map[string]string{"127_0_0_1_Procedure_PR1": newer})

	procedures := queryByType(usecase.Catalog("P1"), "Procedure")
	usecase.ExecuteQuery(context.Background(), procedures, "")
	require.Equal(t, models.QueryStatusSuccess, procedures.Status())

	value, _, err := env.cache.GetString(context.Background(), "127_0_0_1_Procedure_PR1")
	require.NoError(t, err)
	lastUpdated, err := cache.LastUpdatedOf([]byte(value))
	require.NoError(t, err)
	require.NotNil(t, lastUpdated)
	assert.Equal(t, 2025, lastUpdated.Year())
}

func TestAcpQueryUsecase_ExecuteQuery_TransportError(t *testing.T) {
	fhirServer := newFakeFhirServer(t)
	env := newTestEnv(t, fhirServer.URL, 2)
	usecase := newTestQueryUsecase(env)

	deadURL := fhirServer.URL
	fhirServer.Close()

	goals := queryByType(usecase.Catalog("P1"), "Goal")
	usecase.ExecuteQuery(context.Background(), goals, deadURL)

	assert.Equal(t, models.QueryStatusError, goals.Status())
	assert.NotEmpty(t, goals.ErrorMessage())
	assert.Nil(t, goals.Result())
}

func TestAcpQueryUsecase_ExecuteQuery_RunningQueryIsNotReentered(t *testing.T) {
	fhirServer := newFakeFhirServer(t)
	fhirServer.handle("/Goal", http.StatusOK, emptyBundle)
	env := newTestEnv(t, fhirServer.URL, 2)
	usecase := newTestQueryUsecase(env)

	goals := queryByType(usecase.Catalog("P1"), "Goal")
	require.True(t, goals.TryStart())

	usecase.ExecuteQuery(context.Background(), goals, "")

	assert.Equal(t, models.QueryStatusRunning, goals.Status())
	assert.Equal(t, 0, fhirServer.hitCount("/Goal"))
}

func TestAcpQueryUsecase_ExecuteQuery_AlternateServer(t *testing.T) {
	primary := newFakeFhirServer(t)
	alternate := newFakeFhirServer(t)
	alternate.handle("/Goal", http.StatusOK, emptyBundle)
	env := newTestEnv(t, primary.URL, 2)
	usecase := newTestQueryUsecase(env)

	goals := queryByType(usecase.Catalog("P1"), "Goal")
	usecase.ExecuteQuery(context.Background(), goals, alternate.URL+"/")

	assert.Equal(t, models.QueryStatusSuccess, goals.Status())
	assert.Equal(t, 1, alternate.hitCount("/Goal"))
	assert.Equal(t, 0, primary.hitCount("/Goal"))
}

func TestAcpQueryUsecase_Catalog_SameQueriesPerPatient(t *testing.T) {
	env := newTestEnv(t, "https://server.fire.ly", 2)
	usecase := newTestQueryUsecase(env)

	first := usecase.Catalog("P1")
	second := usecase.Catalog("P1")
	other := usecase.Catalog("P2")

	assert.Same(t, first[0], second[0])
	assert.NotSame(t, first[0], other[0])
}

func TestAcpQueryUsecase_ExecuteAll(t *testing.T) {
	fhirServer := newFakeFhirServer(t)
	for _, path := range []string{"/Consent", "/Goal", "/Observation", "/DeviceUseStatement", "/Communication", "/QuestionnaireResponse"} {
		fhirServer.handle(path, http.StatusOK, emptyBundle)
	}
	fhirServer.handle("/Procedure", http.StatusOK, procedureBundle)
	fhirServer.handle("/Practitioner/DR1", http.StatusOK, practitionerDR1)
	env := newTestEnv(t, fhirServer.URL, 2)
	usecase := newTestQueryUsecase(env)

	queries, resolved, err := usecase.ExecuteAll(context.Background(), "P1", "")
	require.NoError(t, err)
	require.Len(t, queries, 8)
	for _, query := range queries {
		assert.Equal(t, models.QueryStatusSuccess, query.Status(), query.Title)
	}

	require.NotNil(t, resolved)
	assert.Equal(t, models.QueryStatusSuccess, resolved.Status)
	assert.Equal(t, []string{"Practitioner/DR1"}, resolved.References)
	assert.Equal(t, 0, fhirServer.hitCount("/Encounter/E1"))

	document := storedDocument(t, env.cache, "127_0_0_1_Practitioner_DR1")
	assert.Equal(t, "DR1", document["id"])
}

func TestAcpQueryUsecase_ExecuteAll_ResolvesHitsNextToOutcome(t *testing.T) {
	fhirServer := newFakeFhirServer(t)
	for _, path := range []string{"/Consent", "/Goal", "/Observation", "/DeviceUseStatement", "/Communication", "/QuestionnaireResponse"} {
		fhirServer.handle(path, http.StatusOK, emptyBundle)
	}
	fhirServer.handle("/Procedure", http.StatusOK, `{"resourceType":"Bundle","type":"searchset","total":1,"entry":[
		{"resource":{"resourceType":"Procedure","id":"PR1","status":"completed",
			"performer":[{"actor":{"reference":"Practitioner/DR1"}}]},"search":{"mode":"match"}},
		{"resource":{"resourceType":"OperationOutcome","issue":[{"severity":"warning","code":"informational","diagnostics":"partial result"}]},
			"search":{"mode":"outcome"}}
	]}`)
	fhirServer.handle("/Practitioner/DR1", http.StatusOK, practitionerDR1)
	env := newTestEnv(t, fhirServer.URL, 2)
	usecase := newTestQueryUsecase(env)

	queries, resolved, err := usecase.ExecuteAll(context.Background(), "P1", "")
	require.NoError(t, err)

	procedures := queryByType(queries, "Procedure")
	require.NotNil(t, procedures)
	assert.Equal(t, models.QueryStatusError, procedures.Status())

	require.NotNil(t, resolved)
	assert.Equal(t, []string{"Practitioner/DR1"}, resolved.References)
	assert.Equal(t, 1, fhirServer.hitCount("/Practitioner/DR1"))
	storedDocument(t, env.cache, "127_0_0_1_Practitioner_DR1")
}

func TestAcpQueryUsecase_FindPatientIDByIdentifier(t *testing.T) {
	fhirServer := newFakeFhirServer(t)
	fhirServer.handle("/Patient", http.StatusOK,
		`{"resourceType":"Bundle","type":"searchset","total":1,"entry":[{"resource":{"resourceType":"Patient","id":"P42"}}]}`)
	env := newTestEnv(t, fhirServer.URL, 2)
	usecase := newTestQueryUsecase(env)

	patientID, err := usecase.FindPatientIDByIdentifier(context.Background(), "", " http://fhir.nl/fhir/NamingSystem/bsn ", "999911120")
	require.NoError(t, err)
	assert.Equal(t, "P42", patientID)
	assert.Equal(t, 1, fhirServer.hitCount("/Patient"))
}

func TestAcpQueryUsecase_FindPatientIDByIdentifier_NoMatch(t *testing.T) {
	fhirServer := newFakeFhirServer(t)
	fhirServer.handle("/Patient", http.StatusOK, emptyBundle)
	env := newTestEnv(t, fhirServer.URL, 2)
	usecase := newTestQueryUsecase(env)

	patientID, err := usecase.FindPatientIDByIdentifier(context.Background(), "", "urn:sys", "missing")
	require.NoError(t, err)
	assert.Empty(t, patientID)
}

func TestAcpQueryUsecase_ResolveResources(t *testing.T) {
	fhirServer := newFakeFhirServer(t)
	fhirServer.handle("/Practitioner/DR1", http.StatusOK, practitionerDR1)
	env := newTestEnv(t, fhirServer.URL, 2)
	usecase := newTestQueryUsecase(env)

	resources := []json.RawMessage{
		json.RawMessage(`{"resourceType":"Procedure","id":"PR9","performer":[{"actor":{"reference":"Practitioner/DR1"}}]}`),
		json.RawMessage(`{"id":"no-type"}`),
		json.RawMessage(`not json`),
	}
	resolved := usecase.ResolveResources(context.Background(), "", 1, resources)

	require.NotNil(t, resolved)
	assert.Equal(t, models.QueryStatusSuccess, resolved.Status)
	assert.Equal(t, []string{"Practitioner/DR1"}, resolved.References)
	assert.Equal(t, 1, fhirServer.hitCount("/Practitioner/DR1"))
	require.Len(t, resolved.Resources, 1)
	assert.Equal(t, "DR1", resolved.Resources[0].ID)
}
