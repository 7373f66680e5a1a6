package practitioner

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

	"github.com/goccy/go-json"
	"github.com/samply/golang-fhir-models/fhir-models/fhir"
	"go.uber.org/zap"
)

// storedContext is the persisted form. Resources are kept as received.
type storedContext struct {
	Practitioner     json.RawMessage `json:"practitioner"`
	PractitionerRole json.RawMessage `json:"practitioner_role,omitempty"`
	OrganizationName string          `json:"organization_name"`
	OrganizationID   string          `json:"organization_id"`
}

type practitionerContextUsecase struct {
	Cache  contracts.ResourceCache
	Locker contracts.KeyLocker
	State  contracts.PractitionerStateStore
	Log    *zap.Logger
}

func NewPractitionerContextUsecase(
	resourceCache contracts.ResourceCache,
	locker contracts.KeyLocker,
	state contracts.PractitionerStateStore,
	logger *zap.Logger,
) contracts.PractitionerContextUsecase {
	return &practitionerContextUsecase{
		Cache:  resourceCache,
		Locker: locker,
		State:  state,
		Log:    logger,
	}
}

// Restore applies the persisted context. A missing or unreadable document
// resets to the defaults.
func (uc *practitionerContextUsecase) Restore(ctx context.Context) (models.PractitionerContext, error) {
	value, found, err := uc.Cache.GetString(ctx, constvars.SettingsPractitionerContextKey)
	if err != nil {
		return models.PractitionerContext{}, exceptions.ErrCacheGet(err, constvars.SettingsPractitionerContextKey)
	}
	if !found || value == "" {
		return uc.ResetToDefault(ctx)
	}

	var stored storedContext
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		uc.Log.Warn("practitionerContextUsecase.Restore stored context is unreadable, using defaults",
			zap.String(constvars.LoggingCacheKey, constvars.SettingsPractitionerContextKey),
			zap.Error(err),
		)
		return uc.ResetToDefault(ctx)
	}
	practitioner, role, err := decodePractitioner(stored.Practitioner, stored.PractitionerRole)
	if err != nil {
		uc.Log.Warn("practitionerContextUsecase.Restore stored practitioner is invalid, using defaults",
			zap.String(constvars.LoggingCacheKey, constvars.SettingsPractitionerContextKey),
			zap.Error(err),
		)
		return uc.ResetToDefault(ctx)
	}

	uc.State.SetPractitioner(practitioner, role)
	uc.State.SetOrganization(stored.OrganizationName, stored.OrganizationID)
	return uc.State.PractitionerContext(), nil
}

func (uc *practitionerContextUsecase) Current() models.PractitionerContext {
	return uc.State.PractitionerContext()
}

// SetPractitioner replaces the author and keeps the organization. role may be
// empty.
func (uc *practitionerContextUsecase) SetPractitioner(ctx context.Context, practitionerJSON, roleJSON json.RawMessage) (models.PractitionerContext, error) {
	practitioner, role, err := decodePractitioner(practitionerJSON, roleJSON)
	if err != nil {
		return models.PractitionerContext{}, err
	}

	current := uc.State.PractitionerContext()
	stored := storedContext{
		Practitioner:     practitionerJSON,
		OrganizationName: current.OrganizationName,
		OrganizationID:   current.OrganizationID,
	}
	if role != nil {
		stored.PractitionerRole = roleJSON
	}
	if err := uc.save(ctx, stored); err != nil {
		return models.PractitionerContext{}, err
	}

	uc.State.SetPractitioner(practitioner, role)
	uc.Log.Info("practitionerContextUsecase.SetPractitioner saved",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingPractitionerIDKey, stringOrEmpty(practitioner.Id)),
	)
	return uc.State.PractitionerContext(), nil
}

func (uc *practitionerContextUsecase) ResetToDefault(ctx context.Context) (models.PractitionerContext, error) {
	practitioner, role, err := decodePractitioner(json.RawMessage(defaultPractitioner), json.RawMessage(defaultPractitionerRole))
	if err != nil {
		return models.PractitionerContext{}, err
	}

	stored := storedContext{
		Practitioner:     json.RawMessage(defaultPractitioner),
		PractitionerRole: json.RawMessage(defaultPractitionerRole),
		OrganizationName: constvars.DefaultOrganizationName,
		OrganizationID:   constvars.DefaultOrganizationID,
	}
	if err := uc.save(ctx, stored); err != nil {
		return models.PractitionerContext{}, err
	}

	uc.State.SetPractitioner(practitioner, role)
	uc.State.SetOrganization(constvars.DefaultOrganizationName, constvars.DefaultOrganizationID)
	return uc.State.PractitionerContext(), nil
}

func (uc *practitionerContextUsecase) save(ctx context.Context, stored storedContext) error {
	release, err := uc.Locker.Lock(ctx, constvars.SettingsPractitionerContextKey)
	if err != nil {
		return err
	}
	defer release()

	encoded, err := json.Marshal(stored)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	if err := uc.Cache.SetString(ctx, constvars.SettingsPractitionerContextKey, string(encoded)); err != nil {
		return exceptions.ErrCacheSet(err, constvars.SettingsPractitionerContextKey)
	}
	return nil
}

// decodePractitioner requires a Practitioner and accepts an empty, null or
// PractitionerRole role.
func decodePractitioner(practitionerJSON, roleJSON json.RawMessage) (*fhir.Practitioner, *fhir.PractitionerRole, error) {
	if err := expectResourceType(practitionerJSON, constvars.ResourcePractitioner); err != nil {
		return nil, nil, err
	}
	var practitioner fhir.Practitioner
	if err := json.Unmarshal(practitionerJSON, &practitioner); err != nil {
		return nil, nil, exceptions.ErrCannotParseJSON(err)
	}

	if len(roleJSON) == 0 || string(roleJSON) == "null" {
		return &practitioner, nil, nil
	}
	if err := expectResourceType(roleJSON, constvars.ResourcePractitionerRole); err != nil {
		return nil, nil, err
	}
	var role fhir.PractitionerRole
	if err := json.Unmarshal(roleJSON, &role); err != nil {
		return nil, nil, exceptions.ErrCannotParseJSON(err)
	}
	return &practitioner, &role, nil
}

func expectResourceType(raw json.RawMessage, resourceType string) error {
	if len(raw) == 0 {
		return exceptions.ErrInputValidation(errors.New(resourceType + " is required"))
	}
	var header fhir_dto.ResourceHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	if header.ResourceType != resourceType {
		return exceptions.ErrInputValidation(fmt.Errorf("expected resourceType %s, got %q", resourceType, header.ResourceType))
	}
	return nil
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
