package vendors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jessica-sub/internal/common/errors"
	"jessica-sub/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Timeout = 2 * time.Second
	return NewClient(cfg, logger.NewTestLogger(t))
}

func decodeBody(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestLoadPreferredVendors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/vendors/", r.URL.Path)
		assert.Equal(t, "user_id=demo_user", r.URL.RawQuery)

		_, _ = w.Write([]byte(`[
			{"id": 2, "user_id": "demo_user", "name": "Bay Electric", "phone": "+14155550101", "trade": "electrician",
			 "city": "San Jose", "state": "CA", "country": "USA", "created_at": "2025-01-02T10:00:00"},
			{"id": 1, "user_id": "demo_user", "name": "Acme Plumbing", "phone": null, "trade": "plumber",
			 "created_at": "2025-01-01T10:00:00"}
		]`))
	}))
	defer server.Close()

	list, err := newTestClient(t, server.URL).LoadPreferredVendors(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, Vendor{
		ID: 2, UserID: "demo_user", Name: "Bay Electric", Phone: "+14155550101", Trade: "electrician",
		City: "San Jose", State: "CA", Country: "USA", CreatedAt: "2025-01-02T10:00:00",
	}, list[0])
	assert.Equal(t, "Acme Plumbing", list[1].Name)
	assert.Empty(t, list[1].Phone)
}

func TestLoadPreferredVendors_EscapesUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a b&c", r.URL.Query().Get("user_id"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.config.UserID = "a b&c"

	list, err := client.LoadPreferredVendors(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddPreferredVendor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/vendors/add", r.URL.Path)
		assert.Equal(t, map[string]interface{}{
			"user_id": "demo_user",
			"name":    "Acme Plumbing",
			"phone":   "4085550123",
			"trade":   "plumber",
		}, decodeBody(t, r))

		_, _ = w.Write([]byte(`{"id": 9, "user_id": "demo_user", "name": "Acme Plumbing", "phone": "4085550123",
			"trade": "plumber", "city": null, "state": null, "country": "USA", "created_at": "2025-01-03T09:30:00"}`))
	}))
	defer server.Close()

	created, err := newTestClient(t, server.URL).AddPreferredVendor(context.Background(), "Acme Plumbing", "4085550123", "plumber")

	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)
	assert.Equal(t, "USA", created.Country)
	assert.Equal(t, "2025-01-03T09:30:00", created.CreatedAt)
}

func TestAddPreferredVendor_EmptyFieldsStillSent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "", body["phone"])
		assert.Equal(t, "", body["trade"])
		_, _ = w.Write([]byte(`{"id": 1, "user_id": "demo_user", "name": "Solo"}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).AddPreferredVendor(context.Background(), "Solo", "", "")
	require.NoError(t, err)
}

func TestRemovePreferredVendor(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantID   *int64
	}{
		{name: "existing vendor", response: `{"status": "deleted", "id": 9}`, wantID: int64Ptr(9)},
		{name: "unknown vendor", response: `{"status": "deleted", "id": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/vendors/remove", r.URL.Path)
				assert.Equal(t, map[string]interface{}{
					"user_id": "demo_user",
					"name":    "Acme Plumbing",
				}, decodeBody(t, r))
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			result, err := newTestClient(t, server.URL).RemovePreferredVendor(context.Background(), "Acme Plumbing")

			require.NoError(t, err)
			assert.Equal(t, "deleted", result.Status)
			assert.Equal(t, tt.wantID, result.ID)
		})
	}
}

func TestClient_PropagatesFailures(t *testing.T) {
	badRequest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Missing vendor id"}`))
	}))
	defer badRequest.Close()

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "not-a-number"`))
	}))
	defer garbage.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	calls := map[string]func(c *Client) error{
		"load": func(c *Client) error {
			_, err := c.LoadPreferredVendors(context.Background())
			return err
		},
		"add": func(c *Client) error {
			_, err := c.AddPreferredVendor(context.Background(), "Acme", "1", "plumber")
			return err
		},
		"remove": func(c *Client) error {
			_, err := c.RemovePreferredVendor(context.Background(), "Acme")
			return err
		},
	}

	for op, call := range calls {
		t.Run(op+" status", func(t *testing.T) {
			err := call(newTestClient(t, badRequest.URL))
			require.Error(t, err)
			apiErr, ok := errors.AsAPIError(err)
			require.True(t, ok)
			assert.True(t, errors.HasCode(err, errors.ErrCodeBackendStatus))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, "Missing vendor id", apiErr.Detail)
			assert.JSONEq(t, `{"detail": "Missing vendor id"}`, apiErr.Body)
		})

		t.Run(op+" decode", func(t *testing.T) {
			err := call(newTestClient(t, garbage.URL))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeBackendResponseInvalid))
			var syntaxErr *json.SyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
		})

		t.Run(op+" network", func(t *testing.T) {
			err := call(newTestClient(t, closedURL))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeBackendRequestFailed))
		})
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
