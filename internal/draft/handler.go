package draft

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/auth"
	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/sheet"
	"NYCU-SDC/survey-builder/internal/survey"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Response struct {
	ID     string        `json:"id"`
	Survey survey.Survey `json:"survey"`
	Dirty  bool          `json:"dirty"`
	Saving bool          `json:"saving"`
}

type AddQuestionRequest struct {
	Type questiontype.Type `json:"type" validate:"required,question_type"`
	QuestionOverrides
}

type ReorderRequest struct {
	QuestionIDs []survey.ID `json:"questionIds" validate:"required"`
}

type PositionRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

type Handler struct {
	logger *zap.Logger
	tracer trace.Tracer

	validator     *validator.Validate
	problemWriter *problem.HttpWriter

	manager  *Manager
	registry *questiontype.Registry
	loginURL string
}

func NewHandler(logger *zap.Logger, validator *validator.Validate, problemWriter *problem.HttpWriter, manager *Manager, registry *questiontype.Registry, loginURL string) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("draft/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		manager:       manager,
		registry:      registry,
		loginURL:      loginURL,
	}
}

func toResponse(session *Session) Response {
	return Response{
		ID:     session.ID,
		Survey: session.Store.Survey(),
		Dirty:  session.Store.Dirty(),
		Saving: session.Store.Saving(),
	}
}

// writeError sends the client to the login page when the storage service refused its credentials.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, logger *zap.Logger) {
	if errors.Is(err, internal.ErrRemoteUnauthorized) || errors.Is(err, internal.ErrNoCredentials) {
		if h.loginURL != "" {
			w.Header().Set("Location", h.loginURL)
		}
	}
	h.problemWriter.WriteError(ctx, w, err, logger)
}

func (h *Handler) session(ctx context.Context, w http.ResponseWriter, r *http.Request, logger *zap.Logger) (*Session, bool) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		h.problemWriter.WriteError(ctx, w, internal.ErrNoUserInContext, logger)
		return nil, false
	}

	session, err := h.manager.Get(principal, r.PathValue("id"))
	if err != nil {
		h.problemWriter.WriteError(ctx, w, err, logger)
		return nil, false
	}
	return session, true
}

func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "CreateHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	principal, ok := auth.GetPrincipal(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}

	var req SessionRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	session, err := h.manager.Open(traceCtx, principal, req)
	if err != nil {
		h.writeError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, toResponse(session))
}

func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, ok := h.session(traceCtx, w, r, logger)
	if !ok {
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, toResponse(session))
}

// DeleteHandler ends the session. Changes not saved yet are discarded.
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "DeleteHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	principal, ok := auth.GetPrincipal(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}

	err := h.manager.Close(traceCtx, principal, r.PathValue("id"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusNoContent, nil)
}

func (h *Handler) PatchHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "PatchHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	var req MetadataPatch
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	session, ok := h.session(traceCtx, w, r, logger)
	if !ok {
		return
	}

	if req.Description != nil {
		sanitized := survey.SanitizeDescription(*req.Description)
		req.Description = &sanitized
	}
	session.Store.UpdateMetadata(req)

	handlerutil.WriteJSONResponse(w, http.StatusOK, toResponse(session))
}

func (h *Handler) PatchSettingsHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "PatchSettingsHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	var req survey.Patch
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	session, ok := h.session(traceCtx, w, r, logger)
	if !ok {
		return
	}

	err := session.Store.UpdateSettings(req)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, toResponse(session))
}

func (h *Handler) AddQuestionHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "AddQuestionHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	var req AddQuestionRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	session, ok := h.session(traceCtx, w, r, logger)
	if !ok {
		return
	}

	overrides := req.QuestionOverrides
	if overrides.Description != nil {
		sanitized := survey.SanitizeDescription(*overrides.Description)
		overrides.Description = &sanitized
	}

	question, err := session.Store.AddQuestion(req.Type, &overrides)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, question)
}

func (h *Handler) PatchQuestionHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "PatchQuestionHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	var req QuestionPatch
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	session, ok := h.session(traceCtx, w, r, logger)
	if !ok {
		return
	}

	questionID := survey.ID(r.PathValue("questionId"))
	if session.Store.Survey().QuestionIndex(questionID) < 0 {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrQuestionNotFound, logger)
		return
	}

	if req.Description != nil {
		sanitized := survey.SanitizeDescription(*req.Description)
		req.Description = &sanitized
	}
	err := session.Store.UpdateQuestion(questionID, req)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, toResponse(session))
}

func (h *Handler) DeleteQuestionHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "DeleteQuestionHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, ok := h.session(traceCtx, w, r, logger)
	if !ok {
		return
	}

	session.Store.DeleteQuestion(survey.ID(r.PathValue("questionId")))

	handlerutil.WriteJSONResponse(w, http.StatusNoContent, nil)
}

func (h *Handler) DuplicateQuestionHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "DuplicateQuestionHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, ok := h.session(traceCtx, w, r, logger)
	if !ok {
		return
	}

	question, found := session.Store.DuplicateQuestion(survey.ID(r.PathValue("questionId")))
	if !found {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrQuestionNotFound, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, question)
}

func (h *Handler) ReorderQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ReorderQuestionsHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	var req ReorderRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	session, ok := h.session(traceCtx, w, r, logger)
	if !ok {
		return
	}

	err := session.Store.ReorderQuestions(req.QuestionIDs)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, toResponse(session))
}

func (h *Handler) MoveQuestionHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "MoveQuestionHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	var req PositionRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	session, ok := h.session(traceCtx, w, r, logger)
	if !ok {
		return
	}

	err := session.Store.MoveQuestion(survey.ID(r.PathValue("questionId")), *req.Index)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, toResponse(session))
}

func (h *Handler) ValidationHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ValidationHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, ok := h.session(traceCtx, w, r, logger)
	if !ok {
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, session.Store.ValidateForPublish())
}

func (h *Handler) SaveHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "SaveHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, ok := h.session(traceCtx, w, r, logger)
	if !ok {
		return
	}

	_, err := session.Store.Save(traceCtx)
	if err != nil {
		span.RecordError(err)
		h.writeError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, toResponse(session))
}

func (h *Handler) PublishHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "PublishHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, ok := h.session(traceCtx, w, r, logger)
	if !ok {
		return
	}

	_, err := session.Store.Publish(traceCtx)
	if err != nil {
		span.RecordError(err)
		var validation ErrValidation
		if errors.As(err, &validation) {
			handlerutil.WriteJSONResponse(w, http.StatusUnprocessableEntity, Validation{Valid: false, Problems: validation.Problems})
			return
		}
		h.writeError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, toResponse(session))
}

func (h *Handler) UnpublishHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "UnpublishHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, ok := h.session(traceCtx, w, r, logger)
	if !ok {
		return
	}

	_, err := session.Store.Unpublish(traceCtx)
	if err != nil {
		span.RecordError(err)
		h.writeError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, toResponse(session))
}

func (h *Handler) CloseHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "CloseHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, ok := h.session(traceCtx, w, r, logger)
	if !ok {
		return
	}

	_, err := session.Store.CloseSurvey(traceCtx)
	if err != nil {
		span.RecordError(err)
		h.writeError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, toResponse(session))
}

func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ExportHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, ok := h.session(traceCtx, w, r, logger)
	if !ok {
		return
	}

	snapshot := session.Store.Survey()

	var buf bytes.Buffer
	err := sheet.Write(&buf, snapshot, h.registry)
	if err != nil {
		span.RecordError(err)
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	w.Header().Set("Content-Type", sheet.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sheet.Filename(snapshot)))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(buf.Bytes())
	if err != nil {
		logger.Warn("Failed to write export", zap.Error(err))
	}
}
