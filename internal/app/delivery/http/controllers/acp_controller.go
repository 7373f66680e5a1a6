package controllers

import (
	"context"
	"errors"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/app/models"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/dto/requests"
	"fauxhr-service/internal/pkg/dto/responses"
	"fauxhr-service/internal/pkg/exceptions"
	"fauxhr-service/internal/pkg/utils"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/samply/golang-fhir-models/fhir-models/fhir"
	"go.uber.org/zap"
)

type AcpController struct {
	Log                      *zap.Logger
	AcpQueryUsecase          contracts.AcpQueryUsecase
	AcpIntegratedDataUsecase contracts.AcpIntegratedDataUsecase
	State                    contracts.AcpStateStore
}

var (
	acpControllerInstance *AcpController
	onceAcpController     sync.Once
)

func NewAcpController(
	logger *zap.Logger,
	acpQueryUsecase contracts.AcpQueryUsecase,
	acpIntegratedDataUsecase contracts.AcpIntegratedDataUsecase,
	state contracts.AcpStateStore,
) *AcpController {
	onceAcpController.Do(func() {
		instance := &AcpController{
			Log:                      logger,
			AcpQueryUsecase:          acpQueryUsecase,
			AcpIntegratedDataUsecase: acpIntegratedDataUsecase,
			State:                    state,
		}
		acpControllerInstance = instance
	})
	return acpControllerInstance
}

func (ctrl *AcpController) GetQueries(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("AcpController.GetQueries requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	patientID := chi.URLParam(r, constvars.URLParamPatientID)
	ctrl.Log.Info("AcpController.GetQueries called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	queries := ctrl.AcpQueryUsecase.Catalog(patientID)
	response := models.AcpQueriesResponse{
		PatientID: patientID,
		Queries:   models.ViewQueries(queries, false),
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAcpQueriesSuccessMessage, response)
}

// RunQueries executes the whole catalog and the reference resolution that
// follows it. The body is optional.
func (ctrl *AcpController) RunQueries(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("AcpController.RunQueries requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	var request requests.RunAcpQueries
	if err := decodeOptionalBody(r, &request); err != nil {
		ctrl.Log.Error("AcpController.RunQueries error decoding JSON",
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
	request.PatientID = chi.URLParam(r, constvars.URLParamPatientID)

	ctrl.Log.Info("AcpController.RunQueries called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		zap.String(constvars.LoggingServerURLKey, request.ServerURL),
	)

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerAcpRunTimeout)
	defer cancel()

	queries, resolved, err := ctrl.AcpQueryUsecase.ExecuteAll(ctx, request.PatientID, request.ServerURL)
	if err != nil {
		ctrl.Log.Error("AcpController.RunQueries error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	response := models.RunAcpQueriesResponse{
		PatientID: request.PatientID,
		ServerURL: ctrl.effectiveServer(request.ServerURL),
		Queries:   models.ViewQueries(queries, false),
		Resolve:   resolved,
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RunAcpQueriesSuccessMessage, response)
}

func (ctrl *AcpController) RunQuery(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("AcpController.RunQuery requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	var request requests.RunAcpQuery
	if err := decodeOptionalBody(r, &request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, constvars.URLParamQueryIndex))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.URLParamQueryIndex))
		return
	}
	request.QueryIndex = index
	request.PatientID = chi.URLParam(r, constvars.URLParamPatientID)

	queries := ctrl.AcpQueryUsecase.Catalog(request.PatientID)
	if request.QueryIndex < 0 || request.QueryIndex >= len(queries) {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrQueryIndexOutOfRange(nil, request.QueryIndex))
		return
	}
	query := queries[request.QueryIndex]

	ctrl.Log.Info("AcpController.RunQuery called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		zap.String(constvars.LoggingQueryTitleKey, query.Title),
	)

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerAcpRunTimeout)
	defer cancel()

	ctrl.AcpQueryUsecase.ExecuteQuery(ctx, query, request.ServerURL)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RunAcpQuerySuccessMessage, query.View(request.QueryIndex, true))
}

func (ctrl *AcpController) ResolveReferences(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("AcpController.ResolveReferences requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	var request requests.ResolveReferences
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ctrl.Log.Error("AcpController.ResolveReferences error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("AcpController.ResolveReferences validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctrl.Log.Info("AcpController.ResolveReferences called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(request.Resources)),
		zap.Int(constvars.LoggingDepthKey, request.Depth),
	)

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerAcpRunTimeout)
	defer cancel()

	result := ctrl.AcpQueryUsecase.ResolveResources(ctx, request.ServerURL, request.Depth, request.Resources)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResolveReferencesSuccessMessage, models.NewResolveReferencesResponse(result))
}

// GetOverview reconciles the cached resources of a patient. The current
// patient is used when its id matches the path. Cached resources whose
// subject or patient names someone else are left out.
func (ctrl *AcpController) GetOverview(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("AcpController.GetOverview requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	patientID := chi.URLParam(r, constvars.URLParamPatientID)
	ctrl.Log.Info("AcpController.GetOverview called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	patient := ctrl.State.Patient()
	if patient == nil || patient.Id == nil || *patient.Id != patientID {
		patient = &fhir.Patient{Id: &patientID}
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	dataset, err := ctrl.AcpIntegratedDataUsecase.LoadIntegratedData(ctx, patient)
	if err != nil {
		ctrl.Log.Error("AcpController.GetOverview error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AcpController.GetOverview succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(dataset.AcpEncounters)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAcpOverviewSuccessMessage, dataset)
}

func (ctrl *AcpController) FindPatientByIdentifier(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("AcpController.FindPatientByIdentifier requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	query := r.URL.Query()
	request := requests.FindPatientByIdentifier{
		ServerURL: query.Get(constvars.QueryParamServerURL),
		System:    query.Get(constvars.QueryParamSystem),
		Value:     query.Get(constvars.QueryParamValue),
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctrl.Log.Info("AcpController.FindPatientByIdentifier called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingServerURLKey, request.ServerURL),
	)

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	patientID, err := ctrl.AcpQueryUsecase.FindPatientIDByIdentifier(ctx, request.ServerURL, request.System, request.Value)
	if err != nil {
		ctrl.Log.Error("AcpController.FindPatientByIdentifier error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	response := responses.PatientLookup{PatientID: patientID, Found: patientID != ""}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FindPatientByIdentifierSuccessMsg, response)
}

func (ctrl *AcpController) effectiveServer(serverURL string) string {
	if serverURL = utils.SanitizeServerURL(serverURL); serverURL != "" {
		return serverURL
	}
	return ctrl.State.Settings().ServerURL
}

// decodeOptionalBody treats an empty body as an empty request.
func decodeOptionalBody(r *http.Request, target interface{}) error {
	err := json.NewDecoder(r.Body).Decode(target)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
