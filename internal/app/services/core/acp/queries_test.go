package acp

import (
	"fauxhr-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalog(t *testing.T) {
	queries := BuildCatalog("P1")
	require.Len(t, queries, 8)

	expected := []struct {
		resourceType string
		queryString  string
	}{
		{"Procedure", "patient=Patient/P1&code=http://snomed.info/sct|713603004&_include=Procedure:encounter"},
		{"Consent", "patient=Patient/P1&scope=http://terminology.hl7.org/CodeSystem/consentscope|treatment&category=http://snomed.info/sct|129125009&_include=Consent:actor"},
		{"Consent", "patient=Patient/P1&scope=http://terminology.hl7.org/CodeSystem/consentscope|adr&category=http://terminology.hl7.org/CodeSystem/consentcategorycodes|acd&_include=Consent:actor"},
		{"Goal", "patient=Patient/P1&description=http://snomed.info/sct|385987000,1351964001,713148004"},
		{"Observation", "patient=Patient/P1&code=http://snomed.info/sct|153851000146100,395091006,340171000146104,247751003"},
		{"DeviceUseStatement", "patient=Patient/P1&device.type:in=https://api.iknl.nl/docs/pzp/r4/ValueSet/ACP-MedicalDeviceProductType-ICD&_include=DeviceUseStatement:device"},
		{"Communication", "patient=Patient/P1&reason-code=http://snomed.info/sct|713603004"},
		{"QuestionnaireResponse", "subject=Patient/P1&questionnaire=https://api.iknl.nl/docs/pzp/r4/Questionnaire/ACP-zib2020"},
	}

	for i, query := range queries {
		assert.Equal(t, expected[i].resourceType, query.ResourceType, "query %d", i)
		assert.Equal(t, expected[i].queryString, query.QueryString, "query %d", i)
		assert.NotEmpty(t, query.Title)
		assert.Equal(t, models.QueryStatusPending, query.Status())
	}
}

func TestBuildCatalog_FreshQueriesPerCall(t *testing.T) {
	first := BuildCatalog("P1")
	second := BuildCatalog("P1")

	require.True(t, first[0].TryStart())
	assert.Equal(t, models.QueryStatusPending, second[0].Status())
}
