package auth

import (
	"context"
	"net/http"
	"strings"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/jwt"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const AccessTokenCookieName = "access_token"

type tokenParser interface {
	Parse(ctx context.Context, tokenString string) (jwt.Subject, error)
}

type Middleware struct {
	tracer        trace.Tracer
	logger        *zap.Logger
	parser        tokenParser
	problemWriter *problem.HttpWriter
}

func NewMiddleware(logger *zap.Logger, parser tokenParser, problemWriter *problem.HttpWriter) *Middleware {
	return &Middleware{
		tracer:        otel.Tracer("auth/middleware"),
		logger:        logger,
		parser:        parser,
		problemWriter: problemWriter,
	}
}

// Authenticate reads the bearer token from the Authorization header, or from the
// access token cookie, and stores the caller in the request context.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceCtx, span := m.tracer.Start(r.Context(), "Authenticate")
		defer span.End()
		logger := logutil.WithContext(traceCtx, m.logger)

		token, err := bearerToken(r)
		if err != nil {
			span.RecordError(err)
			m.problemWriter.WriteError(traceCtx, w, err, logger)
			return
		}

		subject, err := m.parser.Parse(traceCtx, token)
		if err != nil {
			span.RecordError(err)
			m.problemWriter.WriteError(traceCtx, w, err, logger)
			return
		}

		ctx := WithPrincipal(r.Context(), Principal{
			ID:        subject.UserID,
			ExpiresAt: subject.ExpiresAt,
			Token:     token,
		})
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", internal.ErrInvalidAuthHeaderFormat
		}
		return strings.TrimSpace(token), nil
	}

	cookie, err := r.Cookie(AccessTokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", internal.ErrMissingAuthHeader
	}
	return cookie.Value, nil
}
