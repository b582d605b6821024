// Package trace assigns request ids and records every finished request in
// the access log and the HTTP metrics.
package trace

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	applog "commissions/internal/log"
)

const HeaderRequestID = "X-Request-ID"

type ContextKey string

const RequestIDKey ContextKey = "request_id"

// RequestID reuses a well-formed incoming X-Request-ID or assigns a new UUID,
// stores it in the context and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		ctx := context.WithValue(r.Context(), RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// ObserveFunc receives the outcome of one request. The route is the chi
// pattern, so ids in paths do not explode label cardinality.
type ObserveFunc func(method, route string, status int, d time.Duration)

type Middleware struct {
	extractIP func(*http.Request) string
	logger    *applog.StructuredLogger
	observe   ObserveFunc
}

func NewMiddleware(extractIP func(*http.Request) string, logger *applog.StructuredLogger, observe ObserveFunc) *Middleware {
	if extractIP == nil {
		extractIP = func(r *http.Request) string { return r.RemoteAddr }
	}
	if observe == nil {
		observe = func(string, string, int, time.Duration) {}
	}
	return &Middleware{extractIP: extractIP, logger: logger, observe: observe}
}

func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)

		m.observe(r.Method, routePattern(r), status, duration)
		if m.logger != nil {
			m.logger.LogHTTPEnd(r.Context(), r, status, duration.Milliseconds(), m.extractIP(r))
		}
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
