package contracts

import (
	"context"
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/pkg/fhir_dto"
)

type TerminologyUsecase interface {
	SearchValueSets(ctx context.Context, name, status string) ([]fhir_dto.ValueSet, error)
	FindValueSetByID(ctx context.Context, valueSetID string) (*fhir_dto.ValueSet, error)
	// ExpandValueSet accepts a canonical url or a logical id.
	ExpandValueSet(ctx context.Context, urlOrID string, useCache bool) (*fhir_dto.ValueSet, error)
	ValueSetConcepts(ctx context.Context, urlOrID string) ([]models.Concept, error)
	ClearExpansionCache()
	SearchCodeSystems(ctx context.Context, name, status string) ([]fhir_dto.CodeSystem, error)
	FindCodeSystem(ctx context.Context, urlOrID string) (*fhir_dto.CodeSystem, error)
	CodeSystemConcepts(ctx context.Context, urlOrID string) ([]models.Concept, error)
}

type ValueSetBindingUsecase interface {
	Bindings(ctx context.Context) ([]models.ValueSetBinding, error)
	FindBinding(ctx context.Context, elementPath string) (*models.ValueSetBinding, error)
	SetBinding(ctx context.Context, elementPath, valueSetUrl, displayName string) (*models.ValueSetBinding, error)
	RemoveBinding(ctx context.Context, elementPath string) error
	BoundCodes(ctx context.Context, elementPath string) ([]models.BoundCode, error)
	CodesFromValueSet(ctx context.Context, url string) []models.BoundCode
}
