package errors

import (
	"fmt"
	"net/http"
	"runtime/debug"
)

// ErrorCode classifies an operation failure for the callable protocol.
type ErrorCode string

const (
	ErrCodeUnauthenticated  ErrorCode = "UNAUTHENTICATED"
	ErrCodeInvalidArgument  ErrorCode = "INVALID_ARGUMENT"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeInternal         ErrorCode = "INTERNAL"
)

// AppError is the only error type allowed to cross an operation boundary.
// Details carry opaque diagnostics (original error string, stack); they are
// returned to the caller but never parsed programmatically.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a diagnostic key to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRequestID tags the error with the request id for log correlation.
func (e *AppError) WithRequestID(id string) *AppError {
	e.RequestID = id
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Unauthenticated(message string) *AppError {
	return New(ErrCodeUnauthenticated, message)
}

func InvalidArgument(message string) *AppError {
	return New(ErrCodeInvalidArgument, message)
}

func PermissionDenied(message string) *AppError {
	return New(ErrCodePermissionDenied, message)
}

func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// Internal wraps an unexpected error, keeping its string form and the
// current stack as opaque details.
func Internal(message string, cause error) *AppError {
	e := &AppError{Code: ErrCodeInternal, Message: message, Cause: cause}
	if cause != nil {
		e.WithDetail("cause", cause.Error())
	}
	e.WithDetail("stack", string(debug.Stack()))
	return e
}

// FromError returns err as an AppError, wrapping anything untyped as
// INTERNAL so raw errors never reach the wire.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Internal("internal error", err)
}

// HTTPStatus maps the taxonomy onto HTTP status codes.
func HTTPStatus(e *AppError) int {
	switch e.Code {
	case ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrCodePermissionDenied:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
