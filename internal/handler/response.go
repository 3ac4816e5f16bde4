package handler

// RESPONSE HELPERS:
// These functions standardise how the API sends JSON responses and errors.
// Every error response has the same shape:
//
//	{"error": "not_found", "message": "todo not found with id 7"}
//
// so clients always know what fields to expect, regardless of status code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/arshkhan-pathan/todo-service/internal/apperror"
)

// ErrorResponse is the standard error format returned by all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"` // Human-readable description
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status must be written before the body — once Encode calls
// w.Write, the headers are on the wire and any later changes are silently
// ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and
// sends it.
//
// This is the single translation point between the service layer's domain
// errors and HTTP. The service returns apperror sentinels; errors.Is walks
// the wrapped chain to find them:
//
//	unauthorized → 401    validation → 422    not found → 404    conflict → 409
//
// Anything unrecognised is a 500 with a generic message — raw store errors
// never reach the client body (they may contain SQL or file paths), only
// the logs.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError

	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized // 401
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusUnprocessableEntity // 422
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound // 404
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict // 409
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// badRequest reports a malformed request (unparseable body, non-numeric
// path parameter) — distinct from a well-formed body that fails field
// validation, which is 422.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}
