package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_WrapsCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := NewBackendRequestFailedError("/vendors/add", cause)

	assert.Equal(t, ErrCodeBackendRequestFailed, err.Code)
	assert.True(t, err.Retryable)
	assert.Equal(t, cause.Error(), err.Details)
	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "BACKEND_REQUEST_FAILED")

	wrapped := fmt.Errorf("load vendors: %w", err)
	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Same(t, err, stdErr)
	assert.True(t, HasCode(wrapped, ErrCodeBackendRequestFailed))
	assert.False(t, HasCode(wrapped, ErrCodeCallCreateFailed))
}

func TestBackendStatusError_CarriesAPIError(t *testing.T) {
	apiErr := &APIError{StatusCode: http.StatusBadRequest, Detail: "Missing vendor id"}
	err := NewBackendStatusError("/vendors/remove", apiErr)

	assert.False(t, err.Retryable)
	got, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, got.StatusCode)
	assert.Equal(t, "api error (status 400): Missing vendor id", got.Error())

	serverErr := NewBackendStatusError("/vendors/", &APIError{StatusCode: 503, Body: "down\n"})
	assert.True(t, serverErr.Retryable)
	assert.Contains(t, serverErr.Error(), "api error (status 503): down")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeInvalidRequest, http.StatusBadRequest},
		{ErrCodeVendorNotFound, http.StatusNotFound},
		{ErrCodeQueryTimeout, http.StatusGatewayTimeout},
		{ErrCodeCallCreateFailed, http.StatusBadGateway},
		{ErrCodeQueryExecutionFailed, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestClassification(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeQueryExecutionFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeValidationFailed))
	assert.Equal(t, "validation", GetErrorCategory(ErrCodeInvalidRequest))
	assert.Equal(t, "call", GetErrorCategory(ErrCodeCallNotConfigured))
	assert.Equal(t, "storage", GetErrorCategory(ErrCodeVendorNotFound))
	assert.Equal(t, "internal", GetErrorCategory("SOMETHING_ELSE"))
}

type recordingLogger struct {
	errors []string
	warns  []string
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.warns = append(l.warns, msg)
}

func TestErrorHandler_HandleRequestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
		wantWarns  int
		wantErrors int
	}{
		{
			name:       "validation error exposes details",
			err:        NewValidationFailedError("name: required field missing"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `"detail":"name: required field missing"`,
			wantWarns:  1,
		},
		{
			name:       "server error hides details",
			err:        NewQueryExecutionFailedError("vendors.list", fmt.Errorf("pq: relation missing")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"detail":"Database query execution error"`,
			wantErrors: 1,
		},
		{
			name:       "plain error becomes internal",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"code":"INTERNAL_ERROR"`,
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			h := NewErrorHandler(log)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/vendors/", nil)

			h.HandleRequestError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.Len(t, log.warns, tt.wantWarns)
			assert.Len(t, log.errors, tt.wantErrors)
		})
	}
}
