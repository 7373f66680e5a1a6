package crmi

import (
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/pkg/fhir_dto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpansionConcepts(t *testing.T) {
	t.Run("nested contains are flattened", func(t *testing.T) {
		valueSet := &fhir_dto.ValueSet{Expansion: &fhir_dto.ValueSetExpansion{Contains: []fhir_dto.ValueSetContains{
			{Abstract: true, Display: "Group", Contains: []fhir_dto.ValueSetContains{
				{System: "urn:sys", Code: "a", Display: "A"},
				{System: "urn:sys", Code: "b"},
			}},
		}}}

		assert.Equal(t, []models.Concept{{Code: "a", Display: "A"}, {Code: "b", Display: "b"}}, ExpansionConcepts(valueSet))
	})

	t.Run("compose is used without an expansion", func(t *testing.T) {
		valueSet := &fhir_dto.ValueSet{Compose: &fhir_dto.ValueSetCompose{Include: []fhir_dto.ValueSetInclude{
			{System: "urn:sys", Concept: []fhir_dto.ValueSetConcept{{Code: "x", Display: "X"}, {Code: ""}}},
		}}}

		assert.Equal(t, []models.Concept{{Code: "x", Display: "X"}}, ExpansionConcepts(valueSet))
	})

	t.Run("nil value set", func(t *testing.T) {
		assert.Empty(t, ExpansionConcepts(nil))
	})
}

func TestComposeCodes_KeepsTheIncludeSystem(t *testing.T) {
	valueSet := &fhir_dto.ValueSet{Compose: &fhir_dto.ValueSetCompose{Include: []fhir_dto.ValueSetInclude{
		{System: "urn:one", Concept: []fhir_dto.ValueSetConcept{{Code: "1"}}},
		{System: "urn:two", Concept: []fhir_dto.ValueSetConcept{{Code: "2", Display: "Two"}}},
	}}}

	assert.Equal(t, []models.BoundCode{
		{System: "urn:one", Code: "1", Display: "1"},
		{System: "urn:two", Code: "2", Display: "Two"},
	}, ComposeCodes(valueSet))
}

func TestFlattenCodeSystemConcepts(t *testing.T) {
	concepts := []fhir_dto.CodeSystemConcept{
		{Code: "p", Display: "Parent", Concept: []fhir_dto.CodeSystemConcept{
			{Code: "c", Display: "Child", Concept: []fhir_dto.CodeSystemConcept{{Code: "g", Display: "Grandchild"}}},
		}},
	}

	flattened := FlattenCodeSystemConcepts(concepts)

	assert.Equal(t, []string{"Parent", "Parent > Child", "Parent > Child > Grandchild"},
		[]string{flattened[0].Display, flattened[1].Display, flattened[2].Display})
}

func TestCodeSystemCodes(t *testing.T) {
	concepts := []fhir_dto.CodeSystemConcept{
		{Code: "p", Display: "Parent", Concept: []fhir_dto.CodeSystemConcept{{Code: "c"}}},
	}

	assert.Equal(t, []models.BoundCode{
		{System: "urn:cs", Code: "p", Display: "Parent"},
		{System: "urn:cs", Code: "c", Display: "c"},
	}, CodeSystemCodes("urn:cs", concepts))
}
