package apperrors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrInvalidCredential ErrorType = "INVALID_CREDENTIAL"
	ErrSuspendedAccount  ErrorType = "SUSPENDED_ACCOUNT"
	ErrUnknownTenant     ErrorType = "UNKNOWN_TENANT"
	ErrRateLimited       ErrorType = "RATE_LIMITED"
	ErrQuotaExceeded     ErrorType = "QUOTA_EXCEEDED"
	ErrMalformedBilling  ErrorType = "MALFORMED_BILLING_EVENT"
	ErrInvalidRequest    ErrorType = "INVALID_REQUEST"
	ErrNotFound          ErrorType = "NOT_FOUND"
	ErrReadOnly          ErrorType = "READ_ONLY"
	ErrInternal          ErrorType = "INTERNAL_ERROR"
	ErrUpstream          ErrorType = "UPSTREAM_ERROR"
)

// AppError is the standard error struct for the application.
// Message and Suggestion are caller-facing; Cause never is, so internal
// details (digests, SQL, upstream bodies) stay out of responses.
type AppError struct {
	Type       ErrorType `json:"code"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
	HTTPStatus int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errType ErrorType, msg string, cause error) *AppError {
	return &AppError{
		Type:       errType,
		Message:    msg,
		Cause:      cause,
		HTTPStatus: mapTypeToStatus(errType),
		Suggestion: mapTypeToSuggestion(errType),
	}
}

// NewInvalidCredential deliberately carries a single generic message so a
// caller cannot distinguish malformed, unknown or expired credentials.
func NewInvalidCredential(cause error) *AppError {
	return New(ErrInvalidCredential, "invalid or expired credential", cause)
}

func NewSuspended() *AppError {
	return New(ErrSuspendedAccount, "account suspended", nil)
}

func NewRateLimited() *AppError {
	return New(ErrRateLimited, "rate limit exceeded", nil)
}

func NewQuotaExceeded(msg string) *AppError {
	return New(ErrQuotaExceeded, msg, nil)
}

func NewInvalidRequest(msg string) *AppError {
	return New(ErrInvalidRequest, msg, nil)
}

func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return New(ErrInternal, err.Error(), err)
}

func mapTypeToStatus(t ErrorType) int {
	switch t {
	case ErrInvalidCredential, ErrUnknownTenant:
		return http.StatusUnauthorized
	case ErrSuspendedAccount, ErrReadOnly:
		return http.StatusForbidden
	case ErrRateLimited, ErrQuotaExceeded:
		return http.StatusTooManyRequests
	case ErrMalformedBilling, ErrInvalidRequest:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func mapTypeToSuggestion(t ErrorType) string {
	switch t {
	case ErrInvalidCredential:
		return "Check your API key or request a fresh session token."
	case ErrSuspendedAccount:
		return "Contact support to reactivate the account."
	case ErrRateLimited:
		return "Retry after the current window resets."
	case ErrQuotaExceeded:
		return "Upgrade your plan or retry after the daily reset."
	default:
		return ""
	}
}
