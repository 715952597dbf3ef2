package gemini

import (
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// ErrorType categorizes dispatch errors.
type ErrorType string

const (
	ErrInvalidRequest ErrorType = "invalid_request_error"
	ErrAuthentication ErrorType = "authentication_error"
	ErrPermission     ErrorType = "permission_error"
	ErrNotFound       ErrorType = "not_found_error"
	ErrRateLimit      ErrorType = "rate_limit_error"
	ErrAPI            ErrorType = "api_error"
	ErrOverloaded     ErrorType = "overloaded_error"
	ErrProvider       ErrorType = "provider_error"
)

// Error is a classified dispatch error.
type Error struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gemini: %s: %s (code: %s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("gemini: %s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether a retry could plausibly succeed. The
// dispatchers never retry themselves; callers that want retry own it.
func (e *Error) IsRetryable() bool {
	switch e.Type {
	case ErrRateLimit, ErrOverloaded, ErrAPI:
		return true
	default:
		return false
	}
}

// classify maps an SDK error onto the local taxonomy.
func classify(err error) *Error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return &Error{Type: ErrProvider, Message: err.Error(), Cause: err}
	}

	var errType ErrorType
	switch apiErr.Status {
	case "INVALID_ARGUMENT", "FAILED_PRECONDITION":
		errType = ErrInvalidRequest
	case "UNAUTHENTICATED":
		errType = ErrAuthentication
	case "PERMISSION_DENIED":
		errType = ErrPermission
	case "NOT_FOUND":
		errType = ErrNotFound
	case "RESOURCE_EXHAUSTED":
		errType = ErrRateLimit
	case "INTERNAL":
		errType = ErrAPI
	case "UNAVAILABLE":
		errType = ErrOverloaded
	default:
		errType = ErrProvider
	}

	switch apiErr.Code {
	case 429:
		errType = ErrRateLimit
	case 503:
		errType = ErrOverloaded
	case 401, 403:
		errType = ErrAuthentication
	}

	return &Error{
		Type:    errType,
		Message: apiErr.Message,
		Code:    apiErr.Status,
		Cause:   err,
	}
}
