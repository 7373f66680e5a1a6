package acp

import (
	"context"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/app/services/shared/appstate"
	"fauxhr-service/internal/app/services/shared/cache"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/exceptions"
	"fauxhr-service/internal/pkg/utils"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type referenceResolver struct {
	FhirClients contracts.FhirClientRegistry
	Cache       contracts.ResourceCache
	CacheWriter contracts.ResourceCacheWriter
	Log         *zap.Logger
}

func NewReferenceResolver(
	fhirClients contracts.FhirClientRegistry,
	resourceCache contracts.ResourceCache,
	cacheWriter contracts.ResourceCacheWriter,
	logger *zap.Logger,
) contracts.ReferenceResolver {
	return &referenceResolver{
		FhirClients: fhirClients,
		Cache:       resourceCache,
		CacheWriter: cacheWriter,
		Log:         logger,
	}
}

// ResolveReferences fetches what the seed resources point at, then what those
// point at, for at most settings.ReferenceResolutionDepth passes. References
// already cached when the run starts are not fetched again.
func (r *referenceResolver) ResolveReferences(ctx context.Context, settings models.AcpSettings, seed []*models.ClinicalResource) *models.ResolveResult {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	result := &models.ResolveResult{
		Title:        constvars.AcpResolveQueryTitle,
		ResourceType: constvars.AcpResolveQueryResourceType,
		Status:       models.QueryStatusRunning,
		References:   []string{},
	}

	serverURL := utils.SanitizeServerURL(settings.ServerURL)
	depth := appstate.ClampDepth(settings.ReferenceResolutionDepth)
	concurrency := settings.ResolverConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	r.Log.Info("referenceResolver.ResolveReferences called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingServerURLKey, serverURL),
		zap.Int(constvars.LoggingDepthKey, depth),
		zap.Int(constvars.LoggingCountKey, len(seed)),
	)

	client, err := r.FhirClients.Client(serverURL)
	if err != nil {
		return failResolve(result, err)
	}
	existingKeys, err := r.Cache.Keys(ctx)
	if err != nil {
		return failResolve(result, err)
	}

	referenced := make(map[string]struct{})
	for _, resource := range seed {
		for _, reference := range ExtractReferences(resource, serverURL) {
			referenced[reference] = struct{}{}
		}
	}

	processed := make(map[string]struct{})
	for pass := 1; pass <= depth; pass++ {
		frontier := make([]string, 0, len(referenced))
		for reference := range referenced {
			if _, done := processed[reference]; !done {
				frontier = append(frontier, reference)
			}
		}
		if len(frontier) == 0 {
			break
		}
		sort.Strings(frontier)
		result.Passes = pass

		for _, reference := range frontier {
			processed[reference] = struct{}{}
		}

		fetched := make([]*models.ClinicalResource, len(frontier))
		var group errgroup.Group
		group.SetLimit(concurrency)
		for i, reference := range frontier {
			i, reference := i, reference
			group.Go(func() error {
				fetched[i] = r.fetchReference(ctx, client, serverURL, reference, existingKeys)
				return nil
			})
		}
		_ = group.Wait()

		for i, resource := range fetched {
			if resource == nil {
				continue
			}
			result.Resources = append(result.Resources, resource)
			result.References = append(result.References, frontier[i])
			for _, reference := range ExtractReferences(resource, serverURL) {
				referenced[reference] = struct{}{}
			}
		}

		r.Log.Debug("referenceResolver.ResolveReferences pass finished",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingPassKey, pass),
			zap.Int(constvars.LoggingCountKey, len(frontier)),
		)

		if ctx.Err() != nil {
			return failResolve(result, ctx.Err())
		}
	}

	result.Total = len(result.Resources)
	result.Status = models.QueryStatusSuccess
	r.Log.Info("referenceResolver.ResolveReferences finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingPassKey, result.Passes),
		zap.Int(constvars.LoggingCountKey, result.Total),
	)
	return result
}

// fetchReference returns nil for references it skips or could not fetch.
func (r *referenceResolver) fetchReference(ctx context.Context, client contracts.FhirResourceClient, serverURL, reference string, existingKeys []string) *models.ClinicalResource {
	resourceType, resourceID, ok := utils.SplitReference(reference)
	if !ok {
		return nil
	}
	if cache.HasResourceKey(existingKeys, serverURL, resourceType, resourceID) {
		return nil
	}

	raw, err := client.Get(ctx, resourceType+"/"+resourceID)
	if err != nil {
		r.Log.Warn("referenceResolver.fetchReference error calling client.Get",
			zap.String(constvars.LoggingReferenceKey, reference),
			zap.Error(err),
		)
		return nil
	}

	resource, err := models.DecodeClinicalResource(raw)
	if err != nil {
		r.Log.Warn("referenceResolver.fetchReference cannot decode resource",
			zap.String(constvars.LoggingReferenceKey, reference),
			zap.Error(err),
		)
		return nil
	}
	if resource.Kind == models.KindOperationOutcome {
		r.Log.Warn("referenceResolver.fetchReference server returned an OperationOutcome",
			zap.String(constvars.LoggingReferenceKey, reference),
			zap.String("outcome", resource.OperationOutcomeMessage()),
		)
		return nil
	}
	if resource.ID == "" {
		resource.ID = resourceID
	}

	document, err := cache.PrepareDocument(raw, serverURL)
	if err != nil {
		r.Log.Warn("referenceResolver.fetchReference cannot prepare document",
			zap.String(constvars.LoggingReferenceKey, reference),
			zap.Error(err),
		)
		return nil
	}
	key, err := cache.CanonicalKey(serverURL, resource.ResourceType, resource.ID)
	if err != nil {
		return nil
	}
	if _, err := r.CacheWriter.Save(ctx, key, document); err != nil {
		r.Log.Warn("referenceResolver.fetchReference error saving resource",
			zap.String(constvars.LoggingCacheKey, key),
			zap.Error(err),
		)
		return nil
	}

	resource.Source = serverURL
	resource.Raw = document
	return resource
}

func failResolve(result *models.ResolveResult, err error) *models.ResolveResult {
	result.Status = models.QueryStatusError
	result.ErrorMessage = exceptions.Message(err)
	result.Total = len(result.Resources)
	return result
}
