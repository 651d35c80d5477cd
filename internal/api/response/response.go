// Package response provides helpers for writing API responses.
package response

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/rshade/carbonscope/internal/api/middleware"
	"github.com/rshade/carbonscope/internal/api/models"
	"github.com/rshade/carbonscope/internal/logging"
)

// JSON writes data as JSON with the given status code. The body is encoded
// before the header is sent; an encoding failure becomes a 500 problem.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	var buf bytes.Buffer
	if data != nil {
		if err := json.NewEncoder(&buf).Encode(data); err != nil {
			InternalError(w, r, fmt.Errorf("encoding response body: %w", err))
			return
		}
	}

	if requestID := middleware.GetRequestID(r.Context()); requestID != "" {
		w.Header().Set(middleware.RequestIDHeader, requestID)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.FromContext(r.Context()).Warn().Err(err).Msg("writing response body")
	}
}

// Attachment writes body as a downloadable file.
func Attachment(w http.ResponseWriter, r *http.Request, contentType, filename string, body []byte) {
	if requestID := middleware.GetRequestID(r.Context()); requestID != "" {
		w.Header().Set(middleware.RequestIDHeader, requestID)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logging.FromContext(r.Context()).Warn().Err(err).Msg("writing response body")
	}
}

// Error writes a problem response.
func Error(w http.ResponseWriter, r *http.Request, problem *models.Problem) {
	problem.Instance = r.URL.Path
	problem.Write(w)
}

// ValidationError writes a 400 problem listing rejected fields.
func ValidationError(w http.ResponseWriter, r *http.Request, detail string, errs []models.FieldError) {
	Error(w, r, models.NewValidationError(middleware.GetRequestID(r.Context()), detail, errs))
}

// BadRequest writes a 400 problem for an undecodable request.
func BadRequest(w http.ResponseWriter, r *http.Request, detail string) {
	Error(w, r, models.NewMalformedRequest(middleware.GetRequestID(r.Context()), detail))
}

// NotFound writes a 404 problem.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Error(w, r, models.NewNotFound(middleware.GetRequestID(r.Context()),
		"no such endpoint: "+r.Method+" "+r.URL.Path))
}

// MethodNotAllowed writes a 405 problem.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Error(w, r, models.NewMethodNotAllowed(middleware.GetRequestID(r.Context()),
		r.Method+" is not supported on "+r.URL.Path))
}

// InternalError writes a 500 problem and logs err.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error().Err(err).Msg("request failed")
	Error(w, r, models.NewInternalError(middleware.GetRequestID(r.Context()), "an unexpected error occurred"))
}

// ReadError writes the problem for a failed body read: 413 when the body
// exceeded the size limit, 400 otherwise.
func ReadError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		Error(w, r, models.NewPayloadTooLarge(middleware.GetRequestID(r.Context()),
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))
		return
	}
	BadRequest(w, r, "reading request body: "+err.Error())
}
