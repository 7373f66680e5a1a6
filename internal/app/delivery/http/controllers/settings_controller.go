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
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/samply/golang-fhir-models/fhir-models/fhir"
	"go.uber.org/zap"
)

type SettingsController struct {
	Log                        *zap.Logger
	State                      contracts.AcpStateStore
	PractitionerContextUsecase contracts.PractitionerContextUsecase
}

var (
	settingsControllerInstance *SettingsController
	onceSettingsController     sync.Once
)

func NewSettingsController(
	logger *zap.Logger,
	state contracts.AcpStateStore,
	practitionerContextUsecase contracts.PractitionerContextUsecase,
) *SettingsController {
	onceSettingsController.Do(func() {
		instance := &SettingsController{
			Log:                        logger,
			State:                      state,
			PractitionerContextUsecase: practitionerContextUsecase,
		}
		settingsControllerInstance = instance
	})
	return settingsControllerInstance
}

func (ctrl *SettingsController) GetSettings(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("SettingsController.GetSettings requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("SettingsController.GetSettings called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetSettingsSuccessMessage, ctrl.view())
}

// UpdateSettings applies the server url first so an invalid url leaves the
// other settings untouched.
func (ctrl *SettingsController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("SettingsController.UpdateSettings requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	var request requests.UpdateSettings
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ctrl.Log.Error("SettingsController.UpdateSettings error decoding JSON",
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

	ctrl.Log.Info("SettingsController.UpdateSettings called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	if request.ServerURL != nil {
		if _, err := ctrl.State.SetServerURL(*request.ServerURL); err != nil {
			ctrl.Log.Error("SettingsController.UpdateSettings invalid server url",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
	}
	if request.ReferenceResolutionDepth != nil {
		ctrl.State.SetReferenceResolutionDepth(*request.ReferenceResolutionDepth)
	}
	if request.PatientID != nil {
		patientID := strings.TrimSpace(*request.PatientID)
		if patientID == "" {
			ctrl.State.SetPatient(nil)
		} else {
			ctrl.State.SetPatient(&fhir.Patient{Id: &patientID})
		}
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateSettingsSuccessMessage, ctrl.view())
}

func (ctrl *SettingsController) GetPractitioner(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("SettingsController.GetPractitioner requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetPractitionerSuccessMessage, ctrl.PractitionerContextUsecase.Current())
}

// UpdatePractitioner replaces the authoring practitioner. The organization is
// kept.
func (ctrl *SettingsController) UpdatePractitioner(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("SettingsController.UpdatePractitioner requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	var request requests.UpdatePractitioner
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ctrl.Log.Error("SettingsController.UpdatePractitioner error decoding JSON",
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

	practitionerContext, err := ctrl.PractitionerContextUsecase.SetPractitioner(ctx, request.Practitioner, request.PractitionerRole)
	if err != nil {
		ctrl.Log.Error("SettingsController.UpdatePractitioner error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdatePractitionerSuccessMessage, practitionerContext)
}

func (ctrl *SettingsController) ResetPractitioner(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("SettingsController.ResetPractitioner requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	practitionerContext, err := ctrl.PractitionerContextUsecase.ResetToDefault(ctx)
	if err != nil {
		ctrl.Log.Error("SettingsController.ResetPractitioner error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdatePractitionerSuccessMessage, practitionerContext)
}

func (ctrl *SettingsController) view() responses.Settings {
	settings := ctrl.State.Settings()
	view := responses.Settings{
		ServerURL:                settings.ServerURL,
		ReferenceResolutionDepth: settings.ReferenceResolutionDepth,
		ResolverConcurrency:      settings.ResolverConcurrency,
	}
	if patient := ctrl.State.Patient(); patient != nil && patient.Id != nil {
		view.PatientID = *patient.Id
	}
	return view
}
