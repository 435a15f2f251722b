package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	apperrors "opencaption/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindBadGateway ErrorKind = "upstream_failure"
	KindInternal   ErrorKind = "internal"
	KindBadRequest ErrorKind = "bad_request"
)

// APIError represents a structured API error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Code      string            `json:"code,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindBadGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// FromError converts a domain error into an APIError. Collaborator failures
// (ingest, transcription, encoding) become 502 and carry their stage, media
// id and detail so the client can decide whether to retry.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	out := &APIError{Message: err.Error(), Code: string(apperrors.KindOf(err))}
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidInput:
		out.Kind = KindValidation
	case apperrors.KindNotFound:
		out.Kind = KindNotFound
	case apperrors.KindIngest, apperrors.KindTranscription, apperrors.KindEncoding:
		out.Kind = KindBadGateway
	default:
		out.Kind = KindInternal
		out.Message = "Internal server error"
		return out
	}

	var appErr *apperrors.Error
	if stderrors.As(err, &appErr) {
		details := map[string]string{}
		if appErr.Stage != "" {
			details["stage"] = appErr.Stage
		}
		if appErr.MediaID != "" {
			details["media_id"] = appErr.MediaID
		}
		if detail := apperrors.DetailOf(err); detail != "" {
			details["detail"] = detail
		}
		if len(details) > 0 {
			out.Details = details
		}
	}
	return out
}
