package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setCallEnv(t *testing.T, baseURL string) {
	t.Helper()
	t.Setenv("VAPI_PRIVATE_KEY", "sk-test")
	t.Setenv("VAPI_ASSISTANT_ID", "asst-1")
	t.Setenv("VAPI_PHONE_NUMBER_ID", "pn-1")
	t.Setenv("VAPI_BASE_URL", baseURL)
	t.Setenv("CALL_MODE", "TEST")
	t.Setenv("SAFE_TEST_NUMBER", "+14085550100")
	t.Setenv("CUSTOMER_NUMBER", "+19995550199")
}

func TestRun_PlacesCallToSafeNumber(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/call", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "call-123", "status": "queued"}`))
	}))
	defer srv.Close()
	setCallEnv(t, srv.URL)

	var out, logs bytes.Buffer
	code := run(context.Background(), &out, &logs)

	assert.Equal(t, 0, code)
	assert.Contains(t, logs.String(), "Call created")
	assert.Contains(t, logs.String(), `"callId": "call-123"`)
	assert.Contains(t, out.String(), "ENV CHECK:")
	assert.Contains(t, out.String(), "VAPI_PRIVATE_KEY: true")
	assert.Contains(t, out.String(), "VAPI_ASSISTANT_ID: asst-1")
	assert.Equal(t, "asst-1", got["assistantId"])
	assert.Equal(t, "pn-1", got["phoneNumberId"])
	assert.Equal(t, map[string]interface{}{"number": "+14085550100"}, got["customer"])
}

func TestRun_FailsOnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "Invalid Key"}`))
	}))
	defer srv.Close()
	setCallEnv(t, srv.URL)

	var out, logs bytes.Buffer
	assert.Equal(t, 1, run(context.Background(), &out, &logs))
	assert.Contains(t, logs.String(), "call failed")
	assert.Contains(t, logs.String(), "401")
	assert.NotContains(t, logs.String(), "Call created")
}

func TestRun_FailsWithoutCredentials(t *testing.T) {
	setCallEnv(t, "http://127.0.0.1:1")
	t.Setenv("VAPI_PRIVATE_KEY", "")

	var out, logs bytes.Buffer
	code := run(context.Background(), &out, &logs)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "VAPI_PRIVATE_KEY: false")
	assert.Contains(t, logs.String(), "call failed")
	assert.Contains(t, logs.String(), "CALL_NOT_CONFIGURED")
}
