package middleware

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "opencaption/internal/api/errors"
)

// Validator is implemented by request DTOs with rules beyond struct tags.
type Validator interface {
	Validate() error
}

var tagMessages = map[string]string{
	"required": "is required",
	"url":      "must be a valid URL",
	"http_url": "must be a valid URL",
	"gte":      "is out of range",
	"min":      "is too short",
	"max":      "is too long",
	"oneof":    "must be one of the allowed values",
}

// ValidateRequest binds the JSON body, then runs the DTO's own Validate.
func ValidateRequest(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			return apierrors.NewValidationError("Validation failed", map[string]string{"request": "body is required"})
		}
		return apierrors.NewValidationError("Validation failed", fieldErrors(err, "request", "invalid JSON format"))
	}
	return validateDomain(req)
}

// ValidateQuery binds query parameters, then runs the DTO's own Validate.
func ValidateQuery(c *gin.Context, req any) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return apierrors.NewValidationError("Invalid query parameters", fieldErrors(err, "query", "invalid query parameters"))
	}
	return validateDomain(req)
}

func validateDomain(req any) error {
	if v, ok := req.(Validator); ok {
		return v.Validate()
	}
	return nil
}

// fieldErrors turns validator output into a field → message map. Nested
// fields keep their path, e.g. "segments[0].words[1].text".
func fieldErrors(err error, fallbackKey, fallbackMsg string) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{fallbackKey: fallbackMsg}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		out[fieldPath(fe)] = msg
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ToLower(ns)
}
