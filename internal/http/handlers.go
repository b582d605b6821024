package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	applog "commissions/internal/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	NewResponse().Message("ok").Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready(ctx); err != nil {
		s.logger.WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err.Error())
		ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w)
		return
	}
	NewResponse().Message("ready").Write(w)
}

// writeDecodeError answers a body that could not be decoded. Validation
// errors raised while decoding keep their field detail.
func (s *Server) writeDecodeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, errInvalidBody) {
		BadRequestError("invalid JSON body").Write(w)
		return
	}
	s.writeServiceError(w, r, op, err)
}
