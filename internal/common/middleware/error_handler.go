package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "staticshop-backend/internal/common/errors"
)

// RequestID tags every request with an id for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// ErrorHandler converts panics into INTERNAL error envelopes.
func ErrorHandler(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := GetRequestID(c)

		logger.Error().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("panic recovered")

		appErr := apperrors.New(apperrors.ErrCodeInternal, "internal server error").
			WithDetail("panic", fmt.Sprintf("%v", recovered))

		RespondError(c, logger, appErr)
	})
}

// ErrorResponse is the envelope for every failed callable operation.
type ErrorResponse struct {
	Success   bool                `json:"success"`
	Error     *apperrors.AppError `json:"error"`
	Timestamp time.Time           `json:"timestamp"`
	RequestID string              `json:"request_id"`
}

// RespondError writes the structured error envelope and aborts the request.
// Untyped errors are wrapped so nothing raw crosses the boundary.
func RespondError(c *gin.Context, logger zerolog.Logger, err error) {
	requestID := GetRequestID(c)
	appErr := apperrors.FromError(err).WithRequestID(requestID)

	event := logger.Warn()
	if appErr.Code == apperrors.ErrCodeInternal {
		event = logger.Error()
	}
	event.
		Str("request_id", requestID).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("code", string(appErr.Code)).
		Err(appErr).
		Msg("request failed")

	c.AbortWithStatusJSON(apperrors.HTTPStatus(appErr), ErrorResponse{
		Success:   false,
		Error:     appErr,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	})
}

// GetRequestID returns the id set by RequestID, or a fallback.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return "unknown"
}
