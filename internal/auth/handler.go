package auth

import (
	"context"
	"net/http"

	"NYCU-SDC/survey-builder/internal"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SessionCloser ends every editing session a user still holds.
type SessionCloser interface {
	CloseOwner(ctx context.Context, ownerID string) int
}

type Handler struct {
	logger        *zap.Logger
	tracer        trace.Tracer
	problemWriter *problem.HttpWriter
	sessions      SessionCloser
}

func NewHandler(logger *zap.Logger, problemWriter *problem.HttpWriter, sessions SessionCloser) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("auth/handler"),
		problemWriter: problemWriter,
		sessions:      sessions,
	}
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "Me")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	principal, ok := GetPrincipal(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, principal)
}

// Logout drops the caller's editing sessions and the access token cookie. Unsaved
// drafts are discarded.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "Logout")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	principal, ok := GetPrincipal(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}

	closed := h.sessions.CloseOwner(traceCtx, principal.ID)
	logger.Info("User logged out", zap.String("user_id", principal.ID), zap.Int("closed_sessions", closed))

	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	handlerutil.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}
