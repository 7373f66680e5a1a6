package controllers

import (
	"context"
	"fauxhr-service/internal/app/contracts"
	"fauxhr-service/internal/pkg/constvars"
	"fauxhr-service/internal/pkg/dto/responses"
	"fauxhr-service/internal/pkg/exceptions"
	"fauxhr-service/internal/pkg/utils"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CrmiController struct {
	Log                 *zap.Logger
	CrmiArtifactUsecase contracts.CrmiArtifactUsecase
}

var (
	crmiControllerInstance *CrmiController
	onceCrmiController     sync.Once
)

func NewCrmiController(logger *zap.Logger, crmiArtifactUsecase contracts.CrmiArtifactUsecase) *CrmiController {
	onceCrmiController.Do(func() {
		instance := &CrmiController{
			Log:                 logger,
			CrmiArtifactUsecase: crmiArtifactUsecase,
		}
		crmiControllerInstance = instance
	})
	return crmiControllerInstance
}

func (ctrl *CrmiController) SearchArtifacts(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("CrmiController.SearchArtifacts requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	artifactType := chi.URLParam(r, constvars.URLParamArtifactType)
	title := r.URL.Query().Get(constvars.QueryParamTitle)
	status := r.URL.Query().Get(constvars.QueryParamStatus)

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	artifacts, err := ctrl.CrmiArtifactUsecase.SearchArtifacts(ctx, artifactType, title, status)
	if err != nil {
		ctrl.Log.Error("CrmiController.SearchArtifacts error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("CrmiController.SearchArtifacts succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceTypeKey, artifactType),
		zap.Int(constvars.LoggingCountKey, len(artifacts)),
	)
	response := responses.Artifacts{
		ResourceType: artifactType,
		Total:        len(artifacts),
		Artifacts:    artifacts,
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SearchArtifactsSuccessMessage, response)
}

func (ctrl *CrmiController) FindArtifactByID(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("CrmiController.FindArtifactByID requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	artifact, err := ctrl.CrmiArtifactUsecase.FindArtifactByID(ctx,
		chi.URLParam(r, constvars.URLParamArtifactType),
		chi.URLParam(r, constvars.URLParamArtifactID),
	)
	if err != nil {
		ctrl.Log.Error("CrmiController.FindArtifactByID error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetArtifactSuccessMessage, artifact)
}

func (ctrl *CrmiController) CreateArtifact(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("CrmiController.CreateArtifact requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	body, err := rawBody(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrReadBody(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	artifact, err := ctrl.CrmiArtifactUsecase.CreateArtifact(ctx, chi.URLParam(r, constvars.URLParamArtifactType), body)
	if err != nil {
		ctrl.Log.Error("CrmiController.CreateArtifact error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("CrmiController.CreateArtifact succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceIDKey, artifact.GetID()),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateArtifactSuccessMessage, artifact)
}

func (ctrl *CrmiController) UpdateArtifact(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("CrmiController.UpdateArtifact requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	body, err := rawBody(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrReadBody(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	artifact, err := ctrl.CrmiArtifactUsecase.UpdateArtifact(ctx,
		chi.URLParam(r, constvars.URLParamArtifactType),
		chi.URLParam(r, constvars.URLParamArtifactID),
		body,
	)
	if err != nil {
		ctrl.Log.Error("CrmiController.UpdateArtifact error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateArtifactSuccessMessage, artifact)
}

func (ctrl *CrmiController) DeleteArtifact(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("CrmiController.DeleteArtifact requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constvars.ControllerDefaultTimeout)
	defer cancel()

	err := ctrl.CrmiArtifactUsecase.DeleteArtifact(ctx,
		chi.URLParam(r, constvars.URLParamArtifactType),
		chi.URLParam(r, constvars.URLParamArtifactID),
	)
	if err != nil {
		ctrl.Log.Error("CrmiController.DeleteArtifact error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeleteArtifactSuccessMessage, nil)
}

func (ctrl *CrmiController) GetStatusTransitions(w http.ResponseWriter, r *http.Request) {
	status := chi.URLParam(r, constvars.URLParamStatus)
	response := responses.StatusTransitions{
		Status:      status,
		Transitions: ctrl.CrmiArtifactUsecase.StatusTransitions(status),
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetStatusTransitionsSuccessMessage, response)
}

// rawBody prefers the bytes buffered by the body middleware.
func rawBody(r *http.Request) ([]byte, error) {
	if body, ok := r.Context().Value(constvars.CONTEXT_RAW_BODY).([]byte); ok {
		return body, nil
	}
	return io.ReadAll(r.Body)
}
