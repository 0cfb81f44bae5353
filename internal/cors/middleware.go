package cors

import (
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"
)

type Middleware struct {
	logger       *zap.Logger
	allowOrigins []string
}

func NewMiddleware(logger *zap.Logger, allowOrigins []string) *Middleware {
	return &Middleware{
		logger:       logger,
		allowOrigins: allowOrigins,
	}
}

// HandlerFunc answers preflight requests and echoes allowed origins. Without
// configured origins every origin is allowed.
func (m *Middleware) HandlerFunc(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && m.allowed(origin) {
			header := w.Header()
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
			header.Set("Access-Control-Expose-Headers", "Location, Content-Disposition")
			header.Add("Vary", "Origin")
		} else if origin != "" {
			m.logger.Debug("Rejected CORS origin", zap.String("origin", origin))
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			header := w.Header()
			header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Traceparent")
			header.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

func (m *Middleware) allowed(origin string) bool {
	if len(m.allowOrigins) == 0 {
		return true
	}
	return slices.ContainsFunc(m.allowOrigins, func(allowed string) bool {
		return allowed == "*" || strings.EqualFold(allowed, origin)
	})
}
