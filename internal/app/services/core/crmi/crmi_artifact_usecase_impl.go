package crmi

import (
	"context"
	"errors"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/exceptions"
	"fauxhr-service/internal/pkg/fhir_dto"
	"fauxhr-service/internal/pkg/utils"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const notFoundIssueCode = "not-found"

type crmiArtifactUsecase struct {
	FhirClients      contracts.FhirClientRegistry
	CanonicalBaseUrl string
	Log              *zap.Logger
	now              func() time.Time
}

func NewCrmiArtifactUsecase(fhirClients contracts.FhirClientRegistry, canonicalBaseUrl string, logger *zap.Logger) contracts.CrmiArtifactUsecase {
	return &crmiArtifactUsecase{
		FhirClients:      fhirClients,
		CanonicalBaseUrl: canonicalBaseUrl,
		Log:              logger,
		now:              time.Now,
	}
}

func (uc *crmiArtifactUsecase) SearchArtifacts(ctx context.Context, artifactType, title, status string) ([]fhir_dto.Artifact, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if _, err := newArtifact(artifactType); err != nil {
		return nil, err
	}

	query := url.Values{}
	if strings.TrimSpace(title) != "" {
		query.Set(constvars.FhirSearchParamTitle, strings.TrimSpace(title))
	}
	if status != "" && status != constvars.CrmiStatusUnknown {
		query.Set(constvars.FhirSearchParamStatus, strings.ToLower(status))
	}
	query.Set(constvars.FhirSearchParamSort, constvars.FhirSortLastUpdatedDesc)
	query.Set(constvars.FhirSearchParamCount, constvars.FhirDefaultPageSize)

	uc.Log.Info("crmiArtifactUsecase.SearchArtifacts called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceTypeKey, artifactType),
		zap.String(constvars.LoggingQueryParamsKey, query.Encode()),
	)

	client, err := uc.FhirClients.Current()
	if err != nil {
		return nil, err
	}
	bundle, err := client.Search(ctx, artifactType, query.Encode())
	if err != nil {
		uc.Log.Error("crmiArtifactUsecase.SearchArtifacts error calling client.Search",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	artifacts := make([]fhir_dto.Artifact, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		artifact, err := decodeArtifact(artifactType, entry.Resource)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

func (uc *crmiArtifactUsecase) FindArtifactByID(ctx context.Context, artifactType, artifactID string) (fhir_dto.Artifact, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("crmiArtifactUsecase.FindArtifactByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceTypeKey, artifactType),
		zap.String(constvars.LoggingResourceIDKey, artifactID),
	)
	if _, err := newArtifact(artifactType); err != nil {
		return nil, err
	}

	client, err := uc.FhirClients.Current()
	if err != nil {
		return nil, err
	}
	raw, err := client.Get(ctx, artifactType+"/"+artifactID)
	if err != nil {
		return nil, err
	}
	return decodeArtifact(artifactType, raw)
}

// CreateArtifact fills date, draft status and a canonical url when the body
// leaves them out.
func (uc *crmiArtifactUsecase) CreateArtifact(ctx context.Context, artifactType string, body json.RawMessage) (fhir_dto.Artifact, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	artifact, err := parseRequestArtifact(artifactType, body)
	if err != nil {
		return nil, err
	}

	if artifact.GetDate() == "" {
		artifact.SetDate(uc.timestamp())
	}
	if artifact.GetStatus() == "" {
		artifact.SetStatus(constvars.CrmiStatusDraft)
	}
	if artifact.GetUrl() == "" {
		artifact.SetUrl(CanonicalURL(uc.CanonicalBaseUrl, artifactType, artifact.GetName()))
	}
	if err := utils.ValidateStruct(artifact); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	uc.Log.Info("crmiArtifactUsecase.CreateArtifact called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceTypeKey, artifactType),
	)

	client, err := uc.FhirClients.Current()
	if err != nil {
		return nil, err
	}
	raw, err := client.Create(ctx, artifactType, artifact)
	if err != nil {
		uc.Log.Error("crmiArtifactUsecase.CreateArtifact error calling client.Create",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if len(raw) == 0 {
		return artifact, nil
	}
	return decodeArtifact(artifactType, raw)
}

// UpdateArtifact stamps the date and rejects status moves the stored copy
// does not allow.
func (uc *crmiArtifactUsecase) UpdateArtifact(ctx context.Context, artifactType, artifactID string, body json.RawMessage) (fhir_dto.Artifact, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	artifact, err := parseRequestArtifact(artifactType, body)
	if err != nil {
		return nil, err
	}
	artifact.SetID(artifactID)
	if err := utils.ValidateStruct(artifact); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	stored, err := uc.FindArtifactByID(ctx, artifactType, artifactID)
	if err != nil {
		return nil, err
	}
	if message := ValidateStatusTransition(stored.GetStatus(), artifact.GetStatus()); message != "" {
		uc.Log.Info("crmiArtifactUsecase.UpdateArtifact rejected status transition",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingResourceIDKey, artifactID),
			zap.String("from", stored.GetStatus()),
			zap.String("to", artifact.GetStatus()),
		)
		return nil, exceptions.ErrInvalidStatusTransition(errors.New(message), message)
	}
	artifact.SetDate(uc.timestamp())

	client, err := uc.FhirClients.Current()
	if err != nil {
		return nil, err
	}
	raw, err := client.Update(ctx, artifactType, artifactID, artifact)
	if err != nil {
		uc.Log.Error("crmiArtifactUsecase.UpdateArtifact error calling client.Update",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if len(raw) == 0 {
		return artifact, nil
	}
	return decodeArtifact(artifactType, raw)
}

func (uc *crmiArtifactUsecase) DeleteArtifact(ctx context.Context, artifactType, artifactID string) error {
	if _, err := newArtifact(artifactType); err != nil {
		return err
	}

	client, err := uc.FhirClients.Current()
	if err != nil {
		return err
	}
	return utils.LogOperation(uc.Log, "crmiArtifactUsecase.DeleteArtifact", utils.GetRequestID(ctx), func() error {
		return client.Delete(ctx, artifactType, artifactID)
	})
}

func (uc *crmiArtifactUsecase) StatusTransitions(status string) []string {
	return ValidTransitions(status)
}

func (uc *crmiArtifactUsecase) timestamp() string {
	return uc.now().UTC().Format(time.RFC3339)
}

func newArtifact(artifactType string) (fhir_dto.Artifact, error) {
	switch artifactType {
	case constvars.ResourceActivityDefinition:
		return &fhir_dto.ActivityDefinition{ResourceType: artifactType}, nil
	case constvars.ResourceChargeItemDefinition:
		return &fhir_dto.ChargeItemDefinition{ResourceType: artifactType}, nil
	default:
		return nil, exceptions.ErrUnsupportedArtifactType(nil, artifactType)
	}
}

func parseRequestArtifact(artifactType string, body json.RawMessage) (fhir_dto.Artifact, error) {
	artifact, err := newArtifact(artifactType)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, artifact); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	if artifact.GetResourceType() != artifactType {
		return nil, exceptions.ErrInputValidation(fmt.Errorf("resourceType %q does not match %s", artifact.GetResourceType(), artifactType))
	}
	return artifact, nil
}

// decodeArtifact turns a server response into an artifact. An
// OperationOutcome body becomes an error.
func decodeArtifact(artifactType string, raw json.RawMessage) (fhir_dto.Artifact, error) {
	var header fhir_dto.ResourceHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, artifactType)
	}

	if header.ResourceType == constvars.ResourceOperationOutcome {
		return nil, outcomeError(raw, artifactType)
	}

	artifact, err := newArtifact(artifactType)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, artifact); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, artifactType)
	}
	return artifact, nil
}

// outcomeError maps an OperationOutcome body to a not-found or upstream error.
func outcomeError(raw json.RawMessage, resourceType string) error {
	resource, err := models.DecodeClinicalResource(raw)
	if err != nil {
		return exceptions.ErrDecodeResponse(err, resourceType)
	}
	outcome := errors.New(resource.OperationOutcomeMessage())
	if len(resource.OperationOutcome.Issue) > 0 && resource.OperationOutcome.Issue[0].Code == notFoundIssueCode {
		return exceptions.ErrNoDataFHIRResource(outcome, resourceType)
	}
	return exceptions.ErrGetFHIRResource(outcome, resourceType)
}
