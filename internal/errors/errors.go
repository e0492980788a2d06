package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Payphone-Digital/shortlink/internal/constants"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so wrapped copies compare equal to the sentinels.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// WithMessage copies a domain error with a different client-facing message.
func WithMessage(domainErr *DomainError, message string) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: message,
		Err:     domainErr.Err,
	}
}

// Predefined domain errors
var (
	// Request errors
	ErrMissingParameters = NewDomainError("MISSING_PARAMETERS", constants.MsgURLRequired)
	ErrValidation        = NewDomainError("VALIDATION_ERROR", constants.MsgInvalidURL)

	// User errors
	ErrEmailExists        = NewDomainError("EMAIL_EXISTS", constants.MsgUserExists)
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", constants.MsgInvalidCredentials)

	// Authentication errors
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", constants.MsgNoToken)
	ErrInvalidToken        = NewDomainError("INVALID_TOKEN", constants.MsgInvalidToken)
	ErrTokenExpired        = NewDomainError("TOKEN_EXPIRED", constants.MsgTokenExpired)
	ErrRefreshTokenMissing = NewDomainError("REFRESH_TOKEN_MISSING", constants.MsgRefreshTokenMissing)
	ErrInvalidRefreshToken = NewDomainError("INVALID_REFRESH_TOKEN", constants.MsgRefreshTokenInvalid)

	// Link errors
	ErrCustomURLExists  = NewDomainError("CUSTOM_URL_EXISTS", constants.MsgCustomURLExists)
	ErrDuplicateLink    = NewDomainError("DUPLICATE_LINK", constants.MsgDuplicateLink)
	ErrURLNotFound      = NewDomainError("URL_NOT_FOUND", constants.MsgURLNotFound)
	ErrShortURLNotFound = NewDomainError("SHORT_URL_NOT_FOUND", constants.MsgShortURLNotFound)

	// System errors
	ErrInternal           = NewDomainError("INTERNAL_ERROR", constants.MsgInternalError)
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", constants.MsgServiceUnavailable)
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "MISSING_PARAMETERS", "VALIDATION_ERROR", "EMAIL_EXISTS",
		"CUSTOM_URL_EXISTS", "DUPLICATE_LINK":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "INVALID_TOKEN",
		"TOKEN_EXPIRED", "REFRESH_TOKEN_MISSING":
		return http.StatusUnauthorized

	// 403 Forbidden
	case "INVALID_REFRESH_TOKEN":
		return http.StatusForbidden

	// 404 Not Found
	case "URL_NOT_FOUND", "SHORT_URL_NOT_FOUND":
		return http.StatusNotFound

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage returns the client-facing message. Non-domain errors never leak their text.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return constants.MsgInternalError
}
