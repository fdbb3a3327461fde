// Package apperrors provides the structured error type shared by the API client,
// the resource store and the mock API server.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is the category of a failure.
type ErrorType string

const (
	// TypeTransport indicates the request never produced an HTTP response.
	TypeTransport ErrorType = "transport"
	// TypeStatus indicates a non-success HTTP status.
	TypeStatus ErrorType = "status"
	// TypeUnauthorized indicates the server rejected the credential (HTTP 401/403).
	TypeUnauthorized ErrorType = "unauthorized"
	// TypeMalformed indicates a response missing expected fields.
	TypeMalformed ErrorType = "malformed"
	// TypeNotFound indicates a missing resource (HTTP 404).
	TypeNotFound ErrorType = "not_found"
	// TypeValidation indicates invalid input (HTTP 400).
	TypeValidation ErrorType = "validation"
	// TypeConflict indicates a resource conflict (HTTP 409).
	TypeConflict ErrorType = "conflict"
	// TypeInternal indicates a server-side error (HTTP 500).
	TypeInternal ErrorType = "internal"
)

// Error is a classified error with optional cause and context fields.
type Error struct {
	Type    ErrorType
	Message string
	// Status is the HTTP status observed by a client, zero when none was received.
	Status  int
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the status code a server should answer with for this error.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeUnauthorized:
		return http.StatusUnauthorized
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeStatus:
		if e.Status != 0 {
			return e.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithField adds a context field (chainable).
func (e *Error) WithField(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ToResponse returns the JSON body written for this error.
func (e *Error) ToResponse() map[string]string {
	return map[string]string{"message": e.Message}
}

func TransportError(message string, cause error) *Error {
	return &Error{Type: TypeTransport, Message: message, Cause: cause}
}

// StatusError classifies a non-2xx response. 401 and 403 become TypeUnauthorized.
func StatusError(status int, message string) *Error {
	kind := TypeStatus
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = TypeUnauthorized
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Type: kind, Message: message, Status: status}
}

func MalformedError(message string, cause error) *Error {
	return &Error{Type: TypeMalformed, Message: message, Cause: cause}
}

func UnauthorizedError(message string) *Error {
	return &Error{Type: TypeUnauthorized, Message: message}
}

func NotFoundError(message string) *Error {
	return &Error{Type: TypeNotFound, Message: message}
}

func ValidationError(message string) *Error {
	return &Error{Type: TypeValidation, Message: message}
}

func ConflictError(message string) *Error {
	return &Error{Type: TypeConflict, Message: message}
}

func InternalError(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Cause: cause}
}

// TypeOf returns the type of the first *Error in err's chain, or TypeInternal.
func TypeOf(err error) ErrorType {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return TypeInternal
}

// IsUnauthorized reports whether err is a credential rejection.
func IsUnauthorized(err error) bool {
	return err != nil && TypeOf(err) == TypeUnauthorized
}

// AsError converts any error into an *Error, wrapping unknown errors as internal.
func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return InternalError("internal server error", err)
}
