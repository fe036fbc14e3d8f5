package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an ApiError
type Kind int

const (
	// KindClient covers malformed input, unsupported methods and unknown resources
	KindClient Kind = iota
	// KindAuthentication covers missing, invalid or expired tokens and wrong passwords
	KindAuthentication
	// KindInternal covers missing configuration and unexpected failures
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindClient:
		return "client_error"
	case KindAuthentication:
		return "authentication_error"
	default:
		return "internal_error"
	}
}

// ApiError is an error that carries the HTTP status it should be answered with.
// Message is safe to show to callers; Err is only ever logged.
type ApiError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

// Error makes ApiError implement the error interface.
func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d %s] %s: %v", e.StatusCode, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d %s] %s", e.StatusCode, e.Kind, e.Message)
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

// New builds an ApiError with the generic message for its status code
func New(kind Kind, statusCode int, err error) *ApiError {
	return &ApiError{
		Kind:       kind,
		StatusCode: statusCode,
		Message:    messageFor(statusCode),
		Err:        err,
	}
}

func BadRequest(err error) *ApiError {
	return New(KindClient, http.StatusBadRequest, err)
}

func NotFound(err error) *ApiError {
	return New(KindClient, http.StatusNotFound, err)
}

func MethodNotAllowed(method string) *ApiError {
	return New(KindClient, http.StatusMethodNotAllowed, fmt.Errorf("method %s is not supported", method))
}

func Unauthorized(err error) *ApiError {
	return New(KindAuthentication, http.StatusUnauthorized, err)
}

func Forbidden(err error) *ApiError {
	return New(KindAuthentication, http.StatusForbidden, err)
}

func Internal(err error) *ApiError {
	return New(KindInternal, http.StatusInternalServerError, err)
}

// StatusAndMessage resolves the status code and user-facing message for any error.
// Errors that are not ApiErrors are treated as unexpected and answered with 500.
func StatusAndMessage(err error) (int, string) {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, apiErr.Message
	}
	return http.StatusInternalServerError, messageFor(http.StatusInternalServerError)
}

// IsKind reports whether err is an ApiError of the given kind
func IsKind(err error, kind Kind) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

func messageFor(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "Bad request"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Not found"
	case http.StatusMethodNotAllowed:
		return "Method not allowed"
	case http.StatusInternalServerError:
		return "Internal server error"
	}
	return http.StatusText(statusCode)
}
