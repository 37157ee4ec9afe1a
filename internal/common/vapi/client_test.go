package vapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jessica-sub/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/call", r.URL.Path)
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "asst_1", body["assistantId"])
		assert.Equal(t, "pn_1", body["phoneNumberId"])
		assert.Equal(t, map[string]interface{}{"number": "+14084106151"}, body["customer"])
		overrides := body["assistantOverrides"].(map[string]interface{})
		assert.Equal(t, "Jessica absolute baseline test", overrides["firstMessage"])
		assert.Equal(t, map[string]interface{}{"job": "leak"}, overrides["context"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "call_123", "status": "queued", "type": "outboundPhoneCall"}`))
	}))
	defer server.Close()

	client := NewClient("secret-key", server.URL, 5*time.Second)
	call, err := client.CreateCall(context.Background(), &CallRequest{
		AssistantID:   "asst_1",
		PhoneNumberID: "pn_1",
		Customer:      Customer{Number: "+14084106151"},
		AssistantOverrides: &AssistantOverrides{
			FirstMessage: "Jessica absolute baseline test",
			Context:      map[string]interface{}{"job": "leak"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "call_123", call.ID)
	assert.Equal(t, "queued", call.Status)
}

func TestClient_CreateCall_OmitsEmptyOverrides(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, present := body["assistantOverrides"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"id": "call_1"}`))
	}))
	defer server.Close()

	client := NewClient("k", server.URL, 5*time.Second)
	_, err := client.CreateCall(context.Background(), &CallRequest{
		AssistantID:   "a",
		PhoneNumberID: "p",
		Customer:      Customer{Number: "+1"},
	})
	require.NoError(t, err)
}

func TestClient_CreateCall_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
		apiErr  bool
	}{
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"message": "Invalid Key"}`,
			wantErr: "status 401",
			apiErr:  true,
		},
		{
			name:    "redirect status is an error",
			status:  http.StatusMultipleChoices,
			body:    `{}`,
			wantErr: "status 300",
			apiErr:  true,
		},
		{
			name:    "missing id",
			status:  http.StatusCreated,
			body:    `{"status": "queued"}`,
			wantErr: "no call id in response",
		},
		{
			name:    "bad json",
			status:  http.StatusCreated,
			body:    `{`,
			wantErr: "failed to unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient("k", server.URL, 5*time.Second)
			call, err := client.CreateCall(context.Background(), &CallRequest{AssistantID: "a", PhoneNumberID: "p"})

			require.Error(t, err)
			assert.Nil(t, call)
			assert.Contains(t, err.Error(), tt.wantErr)
			_, isAPI := errors.AsAPIError(err)
			assert.Equal(t, tt.apiErr, isAPI)
		})
	}
}

func TestClient_GetCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/call/call_123", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id": "call_123", "status": "ended", "endedReason": "customer-ended-call"}`))
	}))
	defer server.Close()

	client := NewClient("k", server.URL+"/", 5*time.Second)
	call, err := client.GetCall(context.Background(), "call_123")

	require.NoError(t, err)
	assert.Equal(t, "ended", call.Status)
	assert.Equal(t, "customer-ended-call", call.EndedReason)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("k", "", 0)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}
