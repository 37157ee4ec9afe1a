// Package errors provides the structured error types shared by the backend
// clients, the call tooling and the API server.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Backend client errors
	ErrCodeBackendRequestFailed   ErrorCode = "BACKEND_REQUEST_FAILED"
	ErrCodeBackendResponseInvalid ErrorCode = "BACKEND_RESPONSE_INVALID"
	ErrCodeBackendStatus          ErrorCode = "BACKEND_STATUS_ERROR"

	// Outbound call errors
	ErrCodeCallNotConfigured ErrorCode = "CALL_NOT_CONFIGURED"
	ErrCodeCallCreateFailed  ErrorCode = "CALL_CREATE_FAILED"
	ErrCodeCallTimeout       ErrorCode = "CALL_TIMEOUT"

	// Request errors
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"

	// Storage errors
	ErrCodeVendorNotFound           ErrorCode = "VENDOR_NOT_FOUND"
	ErrCodeVendorInsertFailed       ErrorCode = "VENDOR_INSERT_FAILED"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

func newError(code ErrorCode, message string, retryable bool, cause error) *StandardError {
	stdErr := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		stdErr.Details = cause.Error()
	}
	return stdErr
}

// APIError is returned when an HTTP API answers with a non-2xx status.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Detail     string `json:"detail,omitempty"`
	Body       string `json:"body,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// ==========================
// 2. Error Constructors
// ==========================

// NewBackendRequestFailedError wraps a transport failure talking to the API.
func NewBackendRequestFailedError(endpoint string, err error) *StandardError {
	stdErr := newError(ErrCodeBackendRequestFailed, "Backend request failed", true, err)
	stdErr.Metadata = map[string]interface{}{"endpoint": endpoint}
	return stdErr
}

// NewBackendResponseInvalidError wraps a body that could not be decoded.
func NewBackendResponseInvalidError(endpoint string, err error) *StandardError {
	stdErr := newError(ErrCodeBackendResponseInvalid, "Backend response could not be decoded", false, err)
	stdErr.Metadata = map[string]interface{}{"endpoint": endpoint}
	return stdErr
}

// NewBackendStatusError wraps a non-2xx answer from the API.
func NewBackendStatusError(endpoint string, apiErr *APIError) *StandardError {
	stdErr := newError(ErrCodeBackendStatus, "Backend returned an error status", apiErr.StatusCode >= 500, apiErr)
	stdErr.Metadata = map[string]interface{}{"endpoint": endpoint, "status": apiErr.StatusCode}
	return stdErr
}

// NewCallNotConfiguredError reports a missing Vapi credential.
func NewCallNotConfiguredError(missing string) *StandardError {
	stdErr := newError(ErrCodeCallNotConfigured, "Outbound calling is not configured", false, nil)
	stdErr.Details = fmt.Sprintf("%s missing", missing)
	return stdErr
}

// NewCallCreateFailedError wraps a failed call creation.
func NewCallCreateFailedError(err error) *StandardError {
	return newError(ErrCodeCallCreateFailed, "Failed to create outbound call", true, err)
}

// NewCallTimeoutError reports a call creation that ran out of time.
func NewCallTimeoutError(err error) *StandardError {
	return newError(ErrCodeCallTimeout, "Outbound call request timed out", true, err)
}

// NewValidationFailedError creates a non-retryable validation error.
func NewValidationFailedError(details string) *StandardError {
	stdErr := newError(ErrCodeValidationFailed, "Input validation failed", false, nil)
	stdErr.Details = details
	return stdErr
}

// NewInvalidRequestError reports a request that could not be understood.
func NewInvalidRequestError(details string) *StandardError {
	stdErr := newError(ErrCodeInvalidRequest, "Invalid request", false, nil)
	stdErr.Details = details
	return stdErr
}

// NewVendorNotFoundError reports a missing preferred vendor.
func NewVendorNotFoundError(details string) *StandardError {
	stdErr := newError(ErrCodeVendorNotFound, "Vendor not found", false, nil)
	stdErr.Details = details
	return stdErr
}

// NewVendorInsertFailedError wraps a failed vendor insert.
func NewVendorInsertFailedError(err error) *StandardError {
	return newError(ErrCodeVendorInsertFailed, "Vendor insert failed", true, err)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", true, err)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	stdErr := newError(ErrCodeQueryExecutionFailed, "Database query execution error", true, err)
	stdErr.Details = fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error())
	return stdErr
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryType string) *StandardError {
	stdErr := newError(ErrCodeQueryTimeout, "Database query timeout", true, nil)
	stdErr.Details = fmt.Sprintf("queryType: %s", queryType)
	return stdErr
}

// NewCacheUnavailableError wraps a Redis failure.
func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Cache unavailable", true, err)
}

// NewInternalError wraps anything that has no better classification.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", false, err)
}

// ==========================
// 3. Classification
// ==========================

// AsStandardError finds the first StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// AsAPIError finds the first APIError in err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// HasCode reports whether err carries a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

var httpStatusMapping = map[ErrorCode]int{
	ErrCodeValidationFailed:         http.StatusBadRequest,
	ErrCodeInvalidRequest:           http.StatusBadRequest,
	ErrCodeVendorNotFound:           http.StatusNotFound,
	ErrCodeCallNotConfigured:        http.StatusServiceUnavailable,
	ErrCodeCacheUnavailable:         http.StatusServiceUnavailable,
	ErrCodeDatabaseConnectionFailed: http.StatusServiceUnavailable,
	ErrCodeQueryTimeout:             http.StatusGatewayTimeout,
	ErrCodeCallTimeout:              http.StatusGatewayTimeout,
	ErrCodeBackendRequestFailed:     http.StatusBadGateway,
	ErrCodeBackendResponseInvalid:   http.StatusBadGateway,
	ErrCodeBackendStatus:            http.StatusBadGateway,
	ErrCodeCallCreateFailed:         http.StatusBadGateway,
}

// HTTPStatus maps an error code to the status the API answers with.
func HTTPStatus(code ErrorCode) int {
	if status, ok := httpStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsRetryableErrorCode reports whether an operation failing with code may
// succeed when repeated.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeBackendRequestFailed, ErrCodeCallCreateFailed, ErrCodeCallTimeout,
		ErrCodeDatabaseConnectionFailed, ErrCodeQueryExecutionFailed, ErrCodeQueryTimeout,
		ErrCodeCacheUnavailable, ErrCodeVendorInsertFailed:
		return true
	}
	return false
}

// GetErrorCategory groups codes for metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidRequest:
		return "validation"
	case ErrCodeBackendRequestFailed, ErrCodeBackendResponseInvalid, ErrCodeBackendStatus:
		return "backend"
	case ErrCodeCallNotConfigured, ErrCodeCallCreateFailed, ErrCodeCallTimeout:
		return "call"
	case ErrCodeVendorNotFound, ErrCodeVendorInsertFailed, ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed, ErrCodeQueryTimeout:
		return "storage"
	case ErrCodeCacheUnavailable:
		return "cache"
	}
	return "internal"
}
