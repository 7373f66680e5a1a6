package crmi

import (
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/fhir_dto"
)

// ExpansionConcepts lists the codes of an expanded ValueSet, walking nested
// contains. Without an expansion it falls back to the concepts listed in
// compose.include.
func ExpansionConcepts(valueSet *fhir_dto.ValueSet) []models.Concept {
	concepts := []models.Concept{}
	if valueSet == nil {
		return concepts
	}

	for _, code := range ExpansionCodes(valueSet) {
		concepts = append(concepts, models.Concept{Code: code.Code, Display: code.Display})
	}
	if len(concepts) > 0 {
		return concepts
	}
	for _, code := range ComposeCodes(valueSet) {
		concepts = append(concepts, models.Concept{Code: code.Code, Display: code.Display})
	}
	return concepts
}

// ExpansionCodes returns expansion.contains with their systems.
func ExpansionCodes(valueSet *fhir_dto.ValueSet) []models.BoundCode {
	var codes []models.BoundCode
	if valueSet == nil || valueSet.Expansion == nil {
		return codes
	}
	var walk func(contains []fhir_dto.ValueSetContains)
	walk = func(contains []fhir_dto.ValueSetContains) {
		for _, item := range contains {
			if item.Code != "" {
				codes = append(codes, models.BoundCode{
					System:  item.System,
					Code:    item.Code,
					Display: displayOrCode(item.Display, item.Code),
				})
			}
			walk(item.Contains)
		}
	}
	walk(valueSet.Expansion.Contains)
	return codes
}

// ComposeCodes returns the concepts listed explicitly in compose.include.
func ComposeCodes(valueSet *fhir_dto.ValueSet) []models.BoundCode {
	var codes []models.BoundCode
	if valueSet == nil || valueSet.Compose == nil {
		return codes
	}
	for _, include := range valueSet.Compose.Include {
		for _, concept := range include.Concept {
			if concept.Code == "" {
				continue
			}
			codes = append(codes, models.BoundCode{
				System:  include.System,
				Code:    concept.Code,
				Display: displayOrCode(concept.Display, concept.Code),
			})
		}
	}
	return codes
}

// FlattenCodeSystemConcepts walks the concept hierarchy depth first. Child
// displays carry their ancestors, e.g. "Parent > Child".
func FlattenCodeSystemConcepts(concepts []fhir_dto.CodeSystemConcept) []models.Concept {
	flattened := []models.Concept{}
	var walk func(concepts []fhir_dto.CodeSystemConcept, prefix string)
	walk = func(concepts []fhir_dto.CodeSystemConcept, prefix string) {
		for _, concept := range concepts {
			display := prefix + displayOrCode(concept.Display, concept.Code)
			flattened = append(flattened, models.Concept{
				Code:       concept.Code,
				Display:    display,
				Definition: concept.Definition,
			})
			walk(concept.Concept, display+constvars.CrmiConceptPathSeparator)
		}
	}
	walk(concepts, "")
	return flattened
}

// CodeSystemCodes lists every concept of a CodeSystem, nested ones included,
// under system.
func CodeSystemCodes(system string, concepts []fhir_dto.CodeSystemConcept) []models.BoundCode {
	var codes []models.BoundCode
	for _, concept := range concepts {
		codes = append(codes, models.BoundCode{
			System:  system,
			Code:    concept.Code,
			Display: displayOrCode(concept.Display, concept.Code),
		})
		codes = append(codes, CodeSystemCodes(system, concept.Concept)...)
	}
	return codes
}

func displayOrCode(display, code string) string {
	if display == "" {
		return code
	}
	return display
}
