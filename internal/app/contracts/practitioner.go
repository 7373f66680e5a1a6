package contracts

import (
	"context"
	"fauxhr-service/internal/app/models"

	"github.com/goccy/go-json"
	"github.com/samply/golang-fhir-models/fhir-models/fhir"
)

type PractitionerStateStore interface {
	PractitionerContext() models.PractitionerContext
	SetPractitioner(practitioner *fhir.Practitioner, role *fhir.PractitionerRole) bool
	SetOrganization(name, organizationID string) bool
}

type PractitionerContextUsecase interface {
	// Restore loads the persisted practitioner, falling back to the defaults.
	Restore(ctx context.Context) (models.PractitionerContext, error)
	Current() models.PractitionerContext
	SetPractitioner(ctx context.Context, practitioner, role json.RawMessage) (models.PractitionerContext, error)
	ResetToDefault(ctx context.Context) (models.PractitionerContext, error)
}
