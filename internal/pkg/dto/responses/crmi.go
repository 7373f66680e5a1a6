package responses

import (
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/pkg/fhir_dto"
)

type Artifacts struct {
	ResourceType string              `json:"resource_type"`
	Total        int                 `json:"total"`
	Artifacts    []fhir_dto.Artifact `json:"artifacts"`
}

type StatusTransitions struct {
	Status      string   `json:"status"`
	Transitions []string `json:"transitions"`
}

type ValueSets struct {
	Total     int                 `json:"total"`
	ValueSets []fhir_dto.ValueSet `json:"value_sets"`
}

type CodeSystems struct {
	Total       int                   `json:"total"`
	CodeSystems []fhir_dto.CodeSystem `json:"code_systems"`
}

type Concepts struct {
	Source   string           `json:"source"`
	Total    int              `json:"total"`
	Concepts []models.Concept `json:"concepts"`
}

type ValueSetBindings struct {
	Total    int                      `json:"total"`
	Bindings []models.ValueSetBinding `json:"bindings"`
}

type BoundCodes struct {
	ElementPath string             `json:"element_path,omitempty"`
	ValueSetUrl string             `json:"value_set_url,omitempty"`
	Total       int                `json:"total"`
	Codes       []models.BoundCode `json:"codes"`
}
