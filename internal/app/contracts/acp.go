package contracts

import (
	"context"
	"fauxhr-service/internal/app/models"

	"github.com/goccy/go-json"
	"github.com/samply/golang-fhir-models/fhir-models/fhir"
)

type AcpSettingsProvider interface {
	Settings() models.AcpSettings
}

// AcpStateStore is the mutable current server, patient and depth.
type AcpStateStore interface {
	AcpSettingsProvider
	Patient() *fhir.Patient
	SetServerURL(serverURL string) (bool, error)
	SetPatient(patient *fhir.Patient) bool
	SetReferenceResolutionDepth(depth int) bool
}

type AcpQueryUsecase interface {
	Catalog(patientID string) []*models.AcpQuery
	ExecuteQuery(ctx context.Context, query *models.AcpQuery, serverURL string)
	ExecuteAll(ctx context.Context, patientID, serverURL string) ([]*models.AcpQuery, *models.ResolveResult, error)
	ResolveResources(ctx context.Context, serverURL string, depth int, resources []json.RawMessage) *models.ResolveResult
	FindPatientIDByIdentifier(ctx context.Context, serverURL, system, value string) (string, error)
}

type ReferenceResolver interface {
	ResolveReferences(ctx context.Context, settings models.AcpSettings, seed []*models.ClinicalResource) *models.ResolveResult
}

type AcpIntegratedDataUsecase interface {
	LoadIntegratedData(ctx context.Context, currentPatient *fhir.Patient) (*models.IntegratedDataset, error)
}
