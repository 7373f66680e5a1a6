package acp

import (
	"context"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/app/services/shared/cache"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/exceptions"
	"fauxhr-service/internal/pkg/fhir_dto"
	"fauxhr-service/internal/pkg/utils"
	"net/url"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type acpQueryUsecase struct {
	FhirClients contracts.FhirClientRegistry
	CacheWriter contracts.ResourceCacheWriter
	Resolver    contracts.ReferenceResolver
	Settings    contracts.AcpSettingsProvider
	Log         *zap.Logger

	mu       sync.Mutex
	catalogs map[string][]*models.AcpQuery
}

func NewAcpQueryUsecase(
	fhirClients contracts.FhirClientRegistry,
	cacheWriter contracts.ResourceCacheWriter,
	resolver contracts.ReferenceResolver,
	settings contracts.AcpSettingsProvider,
	logger *zap.Logger,
) contracts.AcpQueryUsecase {
	return &acpQueryUsecase{
		FhirClients: fhirClients,
		CacheWriter: cacheWriter,
		Resolver:    resolver,
		Settings:    settings,
		Log:         logger,
		catalogs:    make(map[string][]*models.AcpQuery),
	}
}

// Catalog returns the patient's query set. The same query objects are handed
// out on every call so a running query is visible to concurrent callers.
func (uc *acpQueryUsecase) Catalog(patientID string) []*models.AcpQuery {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	queries, ok := uc.catalogs[patientID]
	if !ok {
		queries = BuildCatalog(patientID)
		uc.catalogs[patientID] = queries
	}
	return queries
}

func (uc *acpQueryUsecase) ExecuteQuery(ctx context.Context, query *models.AcpQuery, serverURL string) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !query.TryStart() {
		uc.Log.Info("acpQueryUsecase.ExecuteQuery skipped, query already running",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueryTitleKey, query.Title),
		)
		return
	}

	effectiveServer := uc.effectiveServer(serverURL)
	uc.Log.Info("acpQueryUsecase.ExecuteQuery called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryTitleKey, query.Title),
		zap.String(constvars.LoggingServerURLKey, effectiveServer),
	)

	client, err := uc.FhirClients.Client(effectiveServer)
	if err != nil {
		query.Fail(nil, exceptions.Message(err))
		return
	}

	bundle, err := client.Search(ctx, query.ResourceType, query.QueryString)
	if err != nil {
		uc.Log.Error("acpQueryUsecase.ExecuteQuery error calling client.Search",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueryTitleKey, query.Title),
			zap.Error(err),
		)
		query.Fail(nil, exceptions.Message(err))
		return
	}

	outcomeMessage, hasOutcome := firstOperationOutcome(bundle)

	if err := uc.persistEntries(ctx, effectiveServer, bundle); err != nil {
		uc.Log.Error("acpQueryUsecase.ExecuteQuery error persisting entries",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueryTitleKey, query.Title),
			zap.Error(err),
		)
		query.Fail(bundle, exceptions.Message(err))
		return
	}

	if hasOutcome {
		query.Fail(bundle, outcomeMessage)
	} else {
		query.Succeed(bundle)
	}

	uc.Log.Info("acpQueryUsecase.ExecuteQuery finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryTitleKey, query.Title),
		zap.String(constvars.LoggingQueryStatusKey, string(query.Status())),
		zap.Int(constvars.LoggingCountKey, len(bundle.Entry)),
	)
}

// ExecuteAll runs the catalog one query at a time, then resolves the
// references of every result the server returned, including the hits of a
// query flagged Error because of an OperationOutcome entry.
func (uc *acpQueryUsecase) ExecuteAll(ctx context.Context, patientID, serverURL string) ([]*models.AcpQuery, *models.ResolveResult, error) {
	queries := uc.Catalog(patientID)
	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			return queries, nil, err
		}
		uc.ExecuteQuery(ctx, query, serverURL)
	}

	var entries []json.RawMessage
	for _, query := range queries {
		if query.Result() == nil {
			continue
		}
		for _, entry := range query.Result().Entry {
			entries = append(entries, entry.Resource)
		}
	}
	return queries, uc.ResolveResources(ctx, serverURL, 0, entries), nil
}

// ResolveResources resolves the references held by resources. A depth of zero
// uses the configured depth. Entries that cannot be decoded are skipped.
func (uc *acpQueryUsecase) ResolveResources(ctx context.Context, serverURL string, depth int, resources []json.RawMessage) *models.ResolveResult {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	seed := make([]*models.ClinicalResource, 0, len(resources))
	for _, raw := range resources {
		resource, err := models.DecodeClinicalResource(raw)
		if err != nil {
			uc.Log.Debug("acpQueryUsecase.ResolveResources skipping undecodable resource",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			continue
		}
		seed = append(seed, resource)
	}

	settings := uc.Settings.Settings()
	settings.ServerURL = uc.effectiveServer(serverURL)
	if depth > 0 {
		settings.ReferenceResolutionDepth = depth
	}
	return uc.Resolver.ResolveReferences(ctx, settings, seed)
}

func (uc *acpQueryUsecase) FindPatientIDByIdentifier(ctx context.Context, serverURL, system, value string) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	system, value = utils.SanitizeIdentifier(system, value)

	client, err := uc.FhirClients.Client(uc.effectiveServer(serverURL))
	if err != nil {
		return "", err
	}

	query := url.Values{constvars.FhirSearchParamIdentifier: {system + "|" + value}}.Encode()
	bundle, err := client.Search(ctx, constvars.ResourcePatient, query)
	if err != nil {
		uc.Log.Error("acpQueryUsecase.FindPatientIDByIdentifier error calling client.Search",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", err
	}

	for _, entry := range bundle.Entry {
		var header fhir_dto.ResourceHeader
		if err := json.Unmarshal(entry.Resource, &header); err != nil {
			continue
		}
		if header.ResourceType == constvars.ResourcePatient {
			return header.ID, nil
		}
	}
	return "", nil
}

func (uc *acpQueryUsecase) effectiveServer(serverURL string) string {
	serverURL = utils.SanitizeServerURL(serverURL)
	if serverURL != "" {
		return serverURL
	}
	return uc.Settings.Settings().ServerURL
}

// persistEntries stores every entry, OperationOutcomes included, under its
// canonical key with meta.source set to the server it came from.
func (uc *acpQueryUsecase) persistEntries(ctx context.Context, serverURL string, bundle *fhir_dto.FHIRBundle) error {
	for _, entry := range bundle.Entry {
		var header fhir_dto.ResourceHeader
		if len(entry.Resource) == 0 || json.Unmarshal(entry.Resource, &header) != nil || header.ResourceType == "" {
			continue
		}

		resourceID := header.ID
		if resourceID == "" {
			resourceID = utils.GenerateResourceID()
		}
		key, err := cache.CanonicalKey(serverURL, header.ResourceType, resourceID)
		if err != nil {
			return exceptions.ErrInvalidServerURL(err)
		}

		document, err := cache.PrepareDocument(entry.Resource, serverURL)
		if err != nil {
			uc.Log.Warn("acpQueryUsecase.persistEntries skipping unreadable entry",
				zap.String(constvars.LoggingCacheKey, key),
				zap.Error(err),
			)
			continue
		}

		if _, err := uc.CacheWriter.Save(ctx, key, document); err != nil {
			return err
		}
	}
	return nil
}

func firstOperationOutcome(bundle *fhir_dto.FHIRBundle) (string, bool) {
	for _, entry := range bundle.Entry {
		var header fhir_dto.ResourceHeader
		if json.Unmarshal(entry.Resource, &header) != nil || header.ResourceType != constvars.ResourceOperationOutcome {
			continue
		}
		resource, err := models.DecodeClinicalResource(entry.Resource)
		if err != nil {
			return constvars.AcpOperationOutcomeFallbackMessage, true
		}
		return resource.OperationOutcomeMessage(), true
	}
	return "", false
}
