package controllers

import (
	"context"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/dto/requests"
	"fauxhr-service/internal/pkg/dto/responses"
	"fauxhr-service/internal/pkg/exceptions"
	"fauxhr-service/internal/pkg/utils"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type TerminologyController struct {
	Log                    *zap.Logger
	TerminologyUsecase     contracts.TerminologyUsecase
	ValueSetBindingUsecase contracts.ValueSetBindingUsecase
}

var (
	terminologyControllerInstance *TerminologyController
	onceTerminologyController     sync.Once
)

func NewTerminologyController(
	logger *zap.Logger,
	terminologyUsecase contracts.TerminologyUsecase,
	valueSetBindingUsecase contracts.ValueSetBindingUsecase,
) *TerminologyController {
	onceTerminologyController.Do(func() {
		instance := &TerminologyController{
			Log:                    logger,
			TerminologyUsecase:     terminologyUsecase,
			ValueSetBindingUsecase: valueSetBindingUsecase,
		}
		terminologyControllerInstance = instance
	})
	return terminologyControllerInstance
}

func (ctrl *TerminologyController) SearchValueSets(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("TerminologyController.SearchValueSets requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	valueSets, err := ctrl.TerminologyUsecase.SearchValueSets(ctx,
		r.URL.Query().Get(constvars.QueryParamName),
		r.URL.Query().Get(constvars.QueryParamStatus),
	)
	if err != nil {
		ctrl.Log.Error("TerminologyController.SearchValueSets error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	response := responses.ValueSets{Total: len(valueSets), ValueSets: valueSets}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SearchValueSetsSuccessMessage, response)
}

func (ctrl *TerminologyController) FindValueSet(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("TerminologyController.FindValueSet requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	valueSet, err := ctrl.TerminologyUsecase.FindValueSetByID(ctx, chi.URLParam(r, constvars.URLParamValueSetID))
	if err != nil {
		ctrl.Log.Error("TerminologyController.FindValueSet error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetValueSetSuccessMessage, valueSet)
}

// ExpandValueSet takes ?url= as a canonical url or a ValueSet id. no_cache=true
// bypasses the expansion cache.
func (ctrl *TerminologyController) ExpandValueSet(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("TerminologyController.ExpandValueSet requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	useCache := true
	if raw := r.URL.Query().Get(constvars.QueryParamNoCache); raw != "" {
		noCache, err := strconv.ParseBool(raw)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.QueryParamNoCache))
			return
		}
		useCache = !noCache
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	expanded, err := ctrl.TerminologyUsecase.ExpandValueSet(ctx, r.URL.Query().Get(constvars.QueryParamUrl), useCache)
	if err != nil {
		ctrl.Log.Error("TerminologyController.ExpandValueSet error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ExpandValueSetSuccessMessage, expanded)
}

func (ctrl *TerminologyController) GetValueSetConcepts(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("TerminologyController.GetValueSetConcepts requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	source := r.URL.Query().Get(constvars.QueryParamUrl)

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	concepts, err := ctrl.TerminologyUsecase.ValueSetConcepts(ctx, source)
	if err != nil {
		ctrl.Log.Error("TerminologyController.GetValueSetConcepts error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	response := responses.Concepts{Source: source, Total: len(concepts), Concepts: concepts}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetConceptsSuccessMessage, response)
}

// GetCodesFromValueSet lists the codes a binding to ?url= would offer.
func (ctrl *TerminologyController) GetCodesFromValueSet(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("TerminologyController.GetCodesFromValueSet requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	source := r.URL.Query().Get(constvars.QueryParamUrl)
	if source == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(nil, constvars.QueryParamUrl))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	codes := ctrl.ValueSetBindingUsecase.CodesFromValueSet(ctx, source)
	response := responses.BoundCodes{ValueSetUrl: source, Total: len(codes), Codes: codes}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetBoundCodesSuccessMessage, response)
}

func (ctrl *TerminologyController) ClearExpansionCache(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.TerminologyUsecase.ClearExpansionCache()
	ctrl.Log.Info("TerminologyController.ClearExpansionCache succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ClearExpansionCacheSuccessMessage, nil)
}

func (ctrl *TerminologyController) SearchCodeSystems(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("TerminologyController.SearchCodeSystems requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	codeSystems, err := ctrl.TerminologyUsecase.SearchCodeSystems(ctx,
		r.URL.Query().Get(constvars.QueryParamName),
		r.URL.Query().Get(constvars.QueryParamStatus),
	)
	if err != nil {
		ctrl.Log.Error("TerminologyController.SearchCodeSystems error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	response := responses.CodeSystems{Total: len(codeSystems), CodeSystems: codeSystems}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SearchCodeSystemsSuccessMessage, response)
}

func (ctrl *TerminologyController) FindCodeSystem(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("TerminologyController.FindCodeSystem requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	codeSystem, err := ctrl.TerminologyUsecase.FindCodeSystem(ctx, chi.URLParam(r, constvars.URLParamCodeSystemID))
	if err != nil {
		ctrl.Log.Error("TerminologyController.FindCodeSystem error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetCodeSystemSuccessMessage, codeSystem)
}

func (ctrl *TerminologyController) GetCodeSystemConcepts(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("TerminologyController.GetCodeSystemConcepts requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	codeSystemID := chi.URLParam(r, constvars.URLParamCodeSystemID)

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	concepts, err := ctrl.TerminologyUsecase.CodeSystemConcepts(ctx, codeSystemID)
	if err != nil {
		ctrl.Log.Error("TerminologyController.GetCodeSystemConcepts error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	response := responses.Concepts{Source: codeSystemID, Total: len(concepts), Concepts: concepts}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetConceptsSuccessMessage, response)
}

func (ctrl *TerminologyController) GetBindings(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("TerminologyController.GetBindings requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	bindings, err := ctrl.ValueSetBindingUsecase.Bindings(ctx)
	if err != nil {
		ctrl.Log.Error("TerminologyController.GetBindings error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	response := responses.ValueSetBindings{Total: len(bindings), Bindings: bindings}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetBindingsSuccessMessage, response)
}

func (ctrl *TerminologyController) GetBinding(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("TerminologyController.GetBinding requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	binding, err := ctrl.ValueSetBindingUsecase.FindBinding(ctx, elementPathParam(r))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetBindingSuccessMessage, binding)
}

func (ctrl *TerminologyController) SetBinding(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("TerminologyController.SetBinding requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	body, err := rawBody(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrReadBody(err))
		return
	}
	var request requests.SetValueSetBinding
	if err := json.Unmarshal(body, &request); err != nil {
		ctrl.Log.Error("TerminologyController.SetBinding error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	binding, err := ctrl.ValueSetBindingUsecase.SetBinding(ctx, elementPathParam(r), request.ValueSetUrl, request.DisplayName)
	if err != nil {
		ctrl.Log.Error("TerminologyController.SetBinding error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SetBindingSuccessMessage, binding)
}

func (ctrl *TerminologyController) RemoveBinding(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("TerminologyController.RemoveBinding requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	if err := ctrl.ValueSetBindingUsecase.RemoveBinding(ctx, elementPathParam(r)); err != nil {
		ctrl.Log.Error("TerminologyController.RemoveBinding error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RemoveBindingSuccessMessage, nil)
}

func (ctrl *TerminologyController) GetBoundCodes(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("TerminologyController.GetBoundCodes requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	elementPath := elementPathParam(r)

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	codes, err := ctrl.ValueSetBindingUsecase.BoundCodes(ctx, elementPath)
	if err != nil {
		ctrl.Log.Error("TerminologyController.GetBoundCodes error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	response := responses.BoundCodes{ElementPath: elementPath, Total: len(codes), Codes: codes}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetBoundCodesSuccessMessage, response)
}

func elementPathParam(r *http.Request) string {
	raw := chi.URLParam(r, constvars.URLParamElementPath)
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}
