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

	"github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

type terminologyUsecase struct {
	FhirClients contracts.FhirClientRegistry
	Log         *zap.Logger
	expansions  *lru.Cache[string, *fhir_dto.ValueSet]
}

// NewTerminologyUsecase keeps up to expansionCacheSize expanded ValueSets,
// keyed by server and url or id.
func NewTerminologyUsecase(fhirClients contracts.FhirClientRegistry, expansionCacheSize int, logger *zap.Logger) (contracts.TerminologyUsecase, error) {
	expansions, err := lru.New[string, *fhir_dto.ValueSet](expansionCacheSize)
	if err != nil {
		return nil, err
	}
	return &terminologyUsecase{
		FhirClients: fhirClients,
		Log:         logger,
		expansions:  expansions,
	}, nil
}

func (uc *terminologyUsecase) SearchValueSets(ctx context.Context, name, status string) ([]fhir_dto.ValueSet, error) {
	entries, err := uc.search(ctx, constvars.ResourceValueSet, name, status)
	if err != nil {
		return nil, err
	}
	valueSets := make([]fhir_dto.ValueSet, 0, len(entries))
	for _, entry := range entries {
		valueSet, err := decodeTerminology[fhir_dto.ValueSet](entry.Resource, constvars.ResourceValueSet)
		if err != nil {
			return nil, err
		}
		valueSets = append(valueSets, *valueSet)
	}
	return valueSets, nil
}

func (uc *terminologyUsecase) FindValueSetByID(ctx context.Context, valueSetID string) (*fhir_dto.ValueSet, error) {
	client, err := uc.FhirClients.Current()
	if err != nil {
		return nil, err
	}
	raw, err := client.Get(ctx, constvars.ResourceValueSet+"/"+url.PathEscape(valueSetID))
	if err != nil {
		return nil, err
	}
	return decodeTerminology[fhir_dto.ValueSet](raw, constvars.ResourceValueSet)
}

// ExpandValueSet calls $expand and falls back to the ValueSet itself when the
// server cannot expand it. Canonical urls use ValueSet/$expand?url=, ids use
// ValueSet/{id}/$expand.
func (uc *terminologyUsecase) ExpandValueSet(ctx context.Context, urlOrID string, useCache bool) (*fhir_dto.ValueSet, error) {
	requestID := utils.GetRequestID(ctx)
	urlOrID = strings.TrimSpace(urlOrID)
	if urlOrID == "" {
		return nil, exceptions.ErrURLParamValidation(errors.New("value set url or id is required"), constvars.QueryParamUrl)
	}

	client, err := uc.FhirClients.Current()
	if err != nil {
		return nil, err
	}
	cacheKey := client.BaseURL() + "|" + urlOrID
	if useCache {
		if cached, ok := uc.expansions.Get(cacheKey); ok {
			return cached, nil
		}
	}

	uc.Log.Info("terminologyUsecase.ExpandValueSet called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingValueSetKey, urlOrID),
	)

	expanded, err := uc.expand(ctx, client, urlOrID)
	if err != nil {
		uc.Log.Debug("terminologyUsecase.ExpandValueSet $expand failed, reading the ValueSet instead",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingValueSetKey, urlOrID),
			zap.Error(err),
		)
		expanded, err = uc.findValueSet(ctx, client, urlOrID)
		if err != nil {
			uc.Log.Warn("terminologyUsecase.ExpandValueSet value set not found",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingValueSetKey, urlOrID),
				zap.Error(err),
			)
			return nil, exceptions.ErrTerminologyNotFound(err, urlOrID)
		}
	}

	if useCache {
		uc.expansions.Add(cacheKey, expanded)
	}
	return expanded, nil
}

func (uc *terminologyUsecase) ValueSetConcepts(ctx context.Context, urlOrID string) ([]models.Concept, error) {
	expanded, err := uc.ExpandValueSet(ctx, urlOrID, true)
	if err != nil {
		return nil, err
	}
	return ExpansionConcepts(expanded), nil
}

func (uc *terminologyUsecase) ClearExpansionCache() {
	uc.expansions.Purge()
}

func (uc *terminologyUsecase) SearchCodeSystems(ctx context.Context, name, status string) ([]fhir_dto.CodeSystem, error) {
	entries, err := uc.search(ctx, constvars.ResourceCodeSystem, name, status)
	if err != nil {
		return nil, err
	}
	codeSystems := make([]fhir_dto.CodeSystem, 0, len(entries))
	for _, entry := range entries {
		codeSystem, err := decodeTerminology[fhir_dto.CodeSystem](entry.Resource, constvars.ResourceCodeSystem)
		if err != nil {
			return nil, err
		}
		codeSystems = append(codeSystems, *codeSystem)
	}
	return codeSystems, nil
}

// FindCodeSystem searches by url for canonical urls and reads by id otherwise.
func (uc *terminologyUsecase) FindCodeSystem(ctx context.Context, urlOrID string) (*fhir_dto.CodeSystem, error) {
	client, err := uc.FhirClients.Current()
	if err != nil {
		return nil, err
	}

	urlOrID = strings.TrimSpace(urlOrID)
	if !utils.IsHTTPURL(urlOrID) {
		raw, err := client.Get(ctx, constvars.ResourceCodeSystem+"/"+url.PathEscape(urlOrID))
		if err != nil {
			return nil, err
		}
		return decodeTerminology[fhir_dto.CodeSystem](raw, constvars.ResourceCodeSystem)
	}

	raw, err := firstByUrl(ctx, client, constvars.ResourceCodeSystem, urlOrID)
	if err != nil {
		return nil, err
	}
	return decodeTerminology[fhir_dto.CodeSystem](raw, constvars.ResourceCodeSystem)
}

func (uc *terminologyUsecase) CodeSystemConcepts(ctx context.Context, urlOrID string) ([]models.Concept, error) {
	codeSystem, err := uc.FindCodeSystem(ctx, urlOrID)
	if err != nil {
		return nil, err
	}
	return FlattenCodeSystemConcepts(codeSystem.Concept), nil
}

func (uc *terminologyUsecase) search(ctx context.Context, resourceType, name, status string) ([]fhir_dto.Entry, error) {
	query := url.Values{}
	if strings.TrimSpace(name) != "" {
		query.Set(constvars.FhirSearchParamName, strings.TrimSpace(name))
	}
	if status != "" && status != constvars.CrmiStatusUnknown {
		query.Set(constvars.FhirSearchParamStatus, strings.ToLower(status))
	}
	query.Set(constvars.FhirSearchParamSort, constvars.FhirSortLastUpdatedDesc)
	query.Set(constvars.FhirSearchParamCount, constvars.FhirDefaultPageSize)

	uc.Log.Info("terminologyUsecase.search called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingResourceTypeKey, resourceType),
		zap.String(constvars.LoggingQueryParamsKey, query.Encode()),
	)

	client, err := uc.FhirClients.Current()
	if err != nil {
		return nil, err
	}
	bundle, err := client.Search(ctx, resourceType, query.Encode())
	if err != nil {
		uc.Log.Error("terminologyUsecase.search error calling client.Search",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
		return nil, err
	}
	return bundle.Entry, nil
}

func (uc *terminologyUsecase) expand(ctx context.Context, client contracts.FhirResourceClient, urlOrID string) (*fhir_dto.ValueSet, error) {
	path := fmt.Sprintf("%s/%s/%s", constvars.ResourceValueSet, url.PathEscape(urlOrID), constvars.FhirOperationExpand)
	if utils.IsHTTPURL(urlOrID) {
		path = fmt.Sprintf("%s/%s?%s=%s", constvars.ResourceValueSet, constvars.FhirOperationExpand,
			constvars.FhirSearchParamUrl, url.QueryEscape(urlOrID))
	}
	raw, err := client.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return decodeTerminology[fhir_dto.ValueSet](raw, constvars.ResourceValueSet)
}

func (uc *terminologyUsecase) findValueSet(ctx context.Context, client contracts.FhirResourceClient, urlOrID string) (*fhir_dto.ValueSet, error) {
	if !utils.IsHTTPURL(urlOrID) {
		raw, err := client.Get(ctx, constvars.ResourceValueSet+"/"+url.PathEscape(urlOrID))
		if err != nil {
			return nil, err
		}
		return decodeTerminology[fhir_dto.ValueSet](raw, constvars.ResourceValueSet)
	}
	raw, err := firstByUrl(ctx, client, constvars.ResourceValueSet, urlOrID)
	if err != nil {
		return nil, err
	}
	return decodeTerminology[fhir_dto.ValueSet](raw, constvars.ResourceValueSet)
}

// firstByUrl returns the first search hit for a canonical url.
func firstByUrl(ctx context.Context, client contracts.FhirResourceClient, resourceType, canonical string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set(constvars.FhirSearchParamUrl, canonical)
	bundle, err := client.Search(ctx, resourceType, query.Encode())
	if err != nil {
		return nil, err
	}
	for _, entry := range bundle.Entry {
		var header fhir_dto.ResourceHeader
		if json.Unmarshal(entry.Resource, &header) == nil && header.ResourceType == resourceType {
			return entry.Resource, nil
		}
	}
	return nil, exceptions.ErrNoDataFHIRResource(fmt.Errorf("no %s with url %s", resourceType, canonical), resourceType)
}

// decodeTerminology rejects OperationOutcome bodies and other resource types.
func decodeTerminology[T any](raw json.RawMessage, resourceType string) (*T, error) {
	var header fhir_dto.ResourceHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, resourceType)
	}
	if header.ResourceType == constvars.ResourceOperationOutcome {
		return nil, outcomeError(raw, resourceType)
	}
	if header.ResourceType != resourceType {
		return nil, exceptions.ErrDecodeResponse(fmt.Errorf("expected %s, got %q", resourceType, header.ResourceType), resourceType)
	}

	resource := new(T)
	if err := json.Unmarshal(raw, resource); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, resourceType)
	}
	return resource, nil
}
