package contracts

import (
	"context"
	"fauxhr-service/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
)

type CrmiArtifactUsecase interface {
	SearchArtifacts(ctx context.Context, artifactType, title, status string) ([]fhir_dto.Artifact, error)
	FindArtifactByID(ctx context.Context, artifactType, artifactID string) (fhir_dto.Artifact, error)
	CreateArtifact(ctx context.Context, artifactType string, body json.RawMessage) (fhir_dto.Artifact, error)
	UpdateArtifact(ctx context.Context, artifactType, artifactID string, body json.RawMessage) (fhir_dto.Artifact, error)
	DeleteArtifact(ctx context.Context, artifactType, artifactID string) error
	StatusTransitions(status string) []string
}
