package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evidentia/evidentia-backend/internal/apperrors"
	"github.com/evidentia/evidentia-backend/internal/pkg/logger"
)

// APIError represents a structured API error response
type APIError struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Error codes for common scenarios
const (
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeNotReady         = "NOT_READY"
	ErrCodeQueryFailed      = "QUERY_FAILED"
	ErrCodeUpstreamRejected = "UPSTREAM_REJECTED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIError{
		Error:     message,
		Code:      code,
		Message:   message,
		RequestID: logger.FromContext(r.Context()),
	})
}

// respondServiceError maps service-layer errors onto HTTP statuses. Scope
// mismatches surface as not found, the same as a missing resource, so the
// response never confirms that an audit id exists under another scope.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var submission *apperrors.SubmissionError
	var failure *apperrors.EngineFailure
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "resource not found")
	case errors.Is(err, apperrors.ErrNotReady):
		respondError(w, r, http.StatusConflict, ErrCodeNotReady, err.Error())
	case errors.As(err, &submission):
		respondError(w, r, http.StatusBadGateway, ErrCodeUpstreamRejected, "audit query was rejected")
	case errors.As(err, &failure):
		respondError(w, r, http.StatusBadGateway, ErrCodeQueryFailed, failure.Error())
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}
