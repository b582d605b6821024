// Package http exposes the sales services as a JSON API.
//
// This file implements the builder for the response envelope every endpoint
// returns: {"success": bool, "message": string, "data": any}.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"commissions/internal/core"
	applog "commissions/internal/log"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ResponseBuilder provides a fluent API for building envelope responses.
type ResponseBuilder struct {
	statusCode int
	envelope   Envelope
	headers    map[string]string
}

// NewResponse starts a successful 200 response.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		envelope:   Envelope{Success: true},
		headers:    make(map[string]string),
	}
}

func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	b.envelope.Success = code < 400
	return b
}

func (b *ResponseBuilder) Message(msg string) *ResponseBuilder {
	b.envelope.Message = msg
	return b
}

func (b *ResponseBuilder) Data(data any) *ResponseBuilder {
	b.envelope.Data = data
	return b
}

func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.envelope)
}

// ErrorResponse creates a failed response with the given status.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).Message(message)
}

func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError() *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, "internal server error")
}

// statusFor maps domain errors to HTTP status codes. Validation is checked
// first because a missing sale reference is both a validation and a
// not-found error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorTypeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return applog.ErrorTypeValidation
	case http.StatusConflict:
		return applog.ErrorTypeConflict
	case http.StatusNotFound:
		return applog.ErrorTypeNotFound
	default:
		return applog.ErrorTypeInternal
	}
}

// writeServiceError answers with the status matching err. Validation errors
// carry their per-field violations as data. Internal errors are logged and
// their detail is not exposed.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.events.LogError(r.Context(), "Request failed", err, errorTypeFor(status), op, nil)
		InternalServerError().Write(w)
		return
	}

	applog.FromContext(r.Context()).DebugContext(r.Context(), "Request rejected",
		applog.FieldError, err.Error(),
		applog.FieldErrorType, errorTypeFor(status),
		applog.FieldOperation, op)

	resp := ErrorResponse(status, err.Error())
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		resp.Data(verr.Violations)
	}
	resp.Write(w)
}
