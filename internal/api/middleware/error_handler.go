package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"opencaption/internal/api/errors"
)

// ErrorHandler recovers panics into a JSON internal error.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := GetRequestID(c)

		logger.Error("Recovered from panic",
			zap.Any("recovered", recovered),
			zap.String("request_id", requestID),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)

		apiErr := &errors.APIError{
			Kind:      errors.KindInternal,
			Message:   "Internal server error",
			RequestID: requestID,
		}
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
	})
}

// HandleError writes err as an APIError response. Domain errors are mapped
// by kind; the original error is attached to the gin context for logging.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	apiErr := errors.FromError(err)
	apiErr.RequestID = GetRequestID(c)
	c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
}
