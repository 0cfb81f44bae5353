// Package catalog serves the read-only building blocks of the builder:
// question types, emoji scales, themes and templates.
package catalog

import (
	"net/http"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/survey"
	"NYCU-SDC/survey-builder/internal/template"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ValidateSettingsRequest struct {
	Settings map[string]any `json:"settings" validate:"required"`
}

type Handler struct {
	logger *zap.Logger
	tracer trace.Tracer

	validator     *validator.Validate
	problemWriter *problem.HttpWriter

	registry  *questiontype.Registry
	templates *template.Catalog
}

func NewHandler(logger *zap.Logger, validator *validator.Validate, problemWriter *problem.HttpWriter, registry *questiontype.Registry, templates *template.Catalog) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("catalog/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		registry:      registry,
		templates:     templates,
	}
}

func (h *Handler) ListTypesHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ListTypesHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	category := questiontype.Category(r.URL.Query().Get("category"))
	if category == "" {
		handlerutil.WriteJSONResponse(w, http.StatusOK, h.registry.List())
		return
	}
	if !h.registry.IsValidCategory(category) {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidCategory, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, h.registry.ListByCategory(category))
}

func (h *Handler) GetTypeHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetTypeHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	config, ok := h.registry.Config(questiontype.Type(r.PathValue("type")))
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrQuestionTypeNotFound, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, config)
}

// ValidateSettingsHandler checks settings against the type's rules. Rule violations
// are part of a 200 answer, only unknown types are errors.
func (h *Handler) ValidateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ValidateSettingsHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	t := questiontype.Type(r.PathValue("type"))
	if !h.registry.IsValid(t) {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrQuestionTypeNotFound, logger)
		return
	}

	var req ValidateSettingsRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, h.registry.ValidateSettings(t, req.Settings))
}

func (h *Handler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "ListCategoriesHandler")
	defer span.End()

	handlerutil.WriteJSONResponse(w, http.StatusOK, h.registry.Categories())
}

func (h *Handler) ListEmojiScalesHandler(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "ListEmojiScalesHandler")
	defer span.End()

	handlerutil.WriteJSONResponse(w, http.StatusOK, h.registry.EmojiScales())
}

func (h *Handler) ListThemesHandler(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "ListThemesHandler")
	defer span.End()

	handlerutil.WriteJSONResponse(w, http.StatusOK, survey.Themes())
}

// ListTemplatesHandler filters by category, then by the search term q.
func (h *Handler) ListTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "ListTemplatesHandler")
	defer span.End()

	query := r.URL.Query()
	summaries := h.templates.List()
	if category := query.Get("category"); category != "" {
		summaries = h.templates.ListByCategory(template.Category(category))
	}
	if q := query.Get("q"); q != "" {
		matches := make(map[string]struct{})
		for _, s := range h.templates.Search(q) {
			matches[s.ID] = struct{}{}
		}
		filtered := make([]template.Summary, 0, len(summaries))
		for _, s := range summaries {
			if _, ok := matches[s.ID]; ok {
				filtered = append(filtered, s)
			}
		}
		summaries = filtered
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, summaries)
}

func (h *Handler) ListTemplateCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "ListTemplateCategoriesHandler")
	defer span.End()

	handlerutil.WriteJSONResponse(w, http.StatusOK, h.templates.Categories())
}

func (h *Handler) GetTemplateHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetTemplateHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	t, err := h.templates.Get(r.PathValue("id"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, t)
}

func (h *Handler) PreviewTemplateHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "PreviewTemplateHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	preview, err := h.templates.Preview(r.PathValue("id"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, preview)
}
