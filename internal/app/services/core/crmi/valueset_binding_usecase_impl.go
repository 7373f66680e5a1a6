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
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// valueSetBindingUsecase keeps every binding in one cache document under
// CrmiValueSetBindingsKey. Writes hold the key lock for the read-modify-write.
type valueSetBindingUsecase struct {
	Cache       contracts.ResourceCache
	Locker      contracts.KeyLocker
	Terminology contracts.TerminologyUsecase
	Log         *zap.Logger
}

func NewValueSetBindingUsecase(
	resourceCache contracts.ResourceCache,
	locker contracts.KeyLocker,
	terminology contracts.TerminologyUsecase,
	logger *zap.Logger,
) contracts.ValueSetBindingUsecase {
	return &valueSetBindingUsecase{
		Cache:       resourceCache,
		Locker:      locker,
		Terminology: terminology,
		Log:         logger,
	}
}

// Bindings returns every binding ordered by element path.
func (uc *valueSetBindingUsecase) Bindings(ctx context.Context) ([]models.ValueSetBinding, error) {
	stored, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	bindings := make([]models.ValueSetBinding, 0, len(stored))
	for _, binding := range stored {
		bindings = append(bindings, binding)
	}
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].ElementPath < bindings[j].ElementPath
	})
	return bindings, nil
}

func (uc *valueSetBindingUsecase) FindBinding(ctx context.Context, elementPath string) (*models.ValueSetBinding, error) {
	stored, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	binding, ok := stored[strings.TrimSpace(elementPath)]
	if !ok {
		return nil, exceptions.ErrValueSetBindingNotFound(nil, elementPath)
	}
	return &binding, nil
}

// SetBinding replaces any binding on elementPath. A blank display name
// becomes the ValueSet url.
func (uc *valueSetBindingUsecase) SetBinding(ctx context.Context, elementPath, valueSetUrl, displayName string) (*models.ValueSetBinding, error) {
	elementPath = strings.TrimSpace(elementPath)
	valueSetUrl = strings.TrimSpace(valueSetUrl)
	if elementPath == "" {
		return nil, exceptions.ErrURLParamValidation(errors.New("element path is required"), constvars.URLParamElementPath)
	}
	if valueSetUrl == "" {
		return nil, exceptions.ErrURLParamValidation(errors.New("value set url is required"), constvars.QueryParamUrl)
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = valueSetUrl
	}
	binding := models.ValueSetBinding{
		ElementPath: elementPath,
		ValueSetUrl: valueSetUrl,
		DisplayName: displayName,
	}

	err := uc.update(ctx, func(bindings map[string]models.ValueSetBinding) bool {
		bindings[elementPath] = binding
		return true
	})
	if err != nil {
		return nil, err
	}

	uc.Log.Info("valueSetBindingUsecase.SetBinding saved",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingElementPathKey, elementPath),
		zap.String(constvars.LoggingValueSetKey, valueSetUrl),
	)
	return &binding, nil
}

// RemoveBinding is a no-op for unbound paths.
func (uc *valueSetBindingUsecase) RemoveBinding(ctx context.Context, elementPath string) error {
	elementPath = strings.TrimSpace(elementPath)
	return uc.update(ctx, func(bindings map[string]models.ValueSetBinding) bool {
		if _, ok := bindings[elementPath]; !ok {
			return false
		}
		delete(bindings, elementPath)
		return true
	})
}

// BoundCodes is empty for an unbound element path.
func (uc *valueSetBindingUsecase) BoundCodes(ctx context.Context, elementPath string) ([]models.BoundCode, error) {
	binding, err := uc.FindBinding(ctx, elementPath)
	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) && customErr.StatusCode == constvars.StatusNotFound {
		return []models.BoundCode{}, nil
	}
	if err != nil {
		return nil, err
	}
	return uc.CodesFromValueSet(ctx, binding.ValueSetUrl), nil
}

// CodesFromValueSet tries, in order: the expansion, the concepts listed in
// compose.include, the CodeSystems named by include.system, and finally url
// read as a CodeSystem. Lookup failures only shorten the list.
func (uc *valueSetBindingUsecase) CodesFromValueSet(ctx context.Context, url string) []models.BoundCode {
	requestID := utils.GetRequestID(ctx)
	codes := []models.BoundCode{}

	expanded, err := uc.Terminology.ExpandValueSet(ctx, url, true)
	if err != nil {
		uc.Log.Debug("valueSetBindingUsecase.CodesFromValueSet no value set",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingValueSetKey, url),
			zap.Error(err),
		)
	}
	if expanded != nil {
		codes = append(codes, ExpansionCodes(expanded)...)
		if len(codes) == 0 {
			codes = append(codes, uc.composeCodes(ctx, expanded)...)
		}
		if len(codes) > 0 {
			return codes
		}
	}

	codeSystem, err := uc.Terminology.FindCodeSystem(ctx, url)
	if err != nil {
		uc.Log.Debug("valueSetBindingUsecase.CodesFromValueSet no code system either",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingValueSetKey, url),
			zap.Error(err),
		)
		return codes
	}
	system := codeSystem.Url
	if system == "" {
		system = url
	}
	return append(codes, CodeSystemCodes(system, codeSystem.Concept)...)
}

func (uc *valueSetBindingUsecase) composeCodes(ctx context.Context, valueSet *fhir_dto.ValueSet) []models.BoundCode {
	codes := ComposeCodes(valueSet)
	if valueSet.Compose == nil {
		return codes
	}
	for _, include := range valueSet.Compose.Include {
		if len(include.Concept) > 0 || include.System == "" {
			continue
		}
		codeSystem, err := uc.Terminology.FindCodeSystem(ctx, include.System)
		if err != nil {
			uc.Log.Debug("valueSetBindingUsecase.composeCodes cannot read included system",
				zap.String(constvars.LoggingValueSetKey, include.System),
				zap.Error(err),
			)
			continue
		}
		codes = append(codes, CodeSystemCodes(include.System, codeSystem.Concept)...)
	}
	return codes
}

// load treats a missing or unreadable document as no bindings.
func (uc *valueSetBindingUsecase) load(ctx context.Context) (map[string]models.ValueSetBinding, error) {
	bindings := make(map[string]models.ValueSetBinding)
	value, found, err := uc.Cache.GetString(ctx, constvars.CrmiValueSetBindingsKey)
	if err != nil {
		return nil, exceptions.ErrCacheGet(err, constvars.CrmiValueSetBindingsKey)
	}
	if !found || value == "" {
		return bindings, nil
	}
	if err := json.Unmarshal([]byte(value), &bindings); err != nil {
		uc.Log.Warn("valueSetBindingUsecase.load stored bindings are unreadable",
			zap.String(constvars.LoggingCacheKey, constvars.CrmiValueSetBindingsKey),
			zap.Error(err),
		)
		return make(map[string]models.ValueSetBinding), nil
	}
	return bindings, nil
}

// update saves only when mutate reports a change.
func (uc *valueSetBindingUsecase) update(ctx context.Context, mutate func(map[string]models.ValueSetBinding) bool) error {
	release, err := uc.Locker.Lock(ctx, constvars.CrmiValueSetBindingsKey)
	if err != nil {
		return err
	}
	defer release()

	bindings, err := uc.load(ctx)
	if err != nil {
		return err
	}
	if !mutate(bindings) {
		return nil
	}

	encoded, err := json.Marshal(bindings)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	if err := uc.Cache.SetString(ctx, constvars.CrmiValueSetBindingsKey, string(encoded)); err != nil {
		return exceptions.ErrCacheSet(err, constvars.CrmiValueSetBindingsKey)
	}
	return nil
}
