package contracts

import (
	"context"
	"fauxhr-service/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
)

type FhirResourceClient interface {
	BaseURL() string
	Search(ctx context.Context, resourceType, query string) (*fhir_dto.FHIRBundle, error)
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Create(ctx context.Context, resourceType string, resource interface{}) (json.RawMessage, error)
	Update(ctx context.Context, resourceType, resourceID string, resource interface{}) (json.RawMessage, error)
	Delete(ctx context.Context, resourceType, resourceID string) error
}

type FhirClientRegistry interface {
	Client(serverURL string) (FhirResourceClient, error)
	Current() (FhirResourceClient, error)
}
