package activity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "jessica-sub/internal/common/errors"
	"jessica-sub/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

func setupHandler(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h, err := NewHandler(HandlerOptions{
		Dependencies: ServiceDependencies{DB: db, Logger: logger.NewTestLogger(t)},
	})
	require.NoError(t, err)

	r := gin.New()
	h.RegisterRoutes(r)
	return r, mock
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==========================
// POST /activity/log
// ==========================

func TestHandler_LogActivity(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(mock sqlmock.Sqlmock)
		wantStatus int
		wantBody   string
	}{
		{
			name: "stores entry",
			body: `{"user_id": "u1", "project_id": "p1", "action": "vendor_call_started", "payload": {"vendor": "Acme"}}`,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO activity_log`).
					WithArgs("u1", "p1", "vendor_call_started", `{"vendor": "Acme"}`).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok"}`,
		},
		{
			name: "null project and payload",
			body: `{"user_id": "u1", "project_id": null, "action": "opened_app", "payload": null}`,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO activity_log`).
					WithArgs("u1", nil, "opened_app", nil).
					WillReturnResult(sqlmock.NewResult(2, 1))
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok"}`,
		},
		{
			name:       "missing action",
			body:       `{"user_id": "u1"}`,
			setupMock:  func(mock sqlmock.Sqlmock) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"detail":"action: required field missing"`,
		},
		{
			name:       "not an object",
			body:       `["u1"]`,
			setupMock:  func(mock sqlmock.Sqlmock) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"code":"INVALID_REQUEST"`,
		},
		{
			name: "database failure",
			body: `{"user_id": "u1", "action": "x"}`,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO activity_log`).WillReturnError(errors.New("connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"code":"QUERY_EXECUTION_FAILED"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := setupHandler(t)
			tt.setupMock(mock)

			w := doRequest(r, http.MethodPost, "/activity/log", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// ==========================
// GET /activity/list
// ==========================

func TestHandler_ListActivity(t *testing.T) {
	created := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantStatus int
	}{
		{name: "default limit", query: "", wantLimit: 50, wantStatus: http.StatusOK},
		{name: "explicit limit", query: "?limit=5", wantLimit: 5, wantStatus: http.StatusOK},
		{name: "clamped limit", query: "?limit=100000", wantLimit: 500, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := setupHandler(t)

			mock.ExpectQuery(`SELECT id, user_id, project_id, action, payload, created_at FROM activity_log ORDER BY created_at DESC LIMIT \$1`).
				WithArgs(tt.wantLimit).
				WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "project_id", "action", "payload", "created_at"}).
					AddRow(2, "u1", "p1", "vendor_added", []byte(`{"vendor_id": 9}`), created).
					AddRow(1, "u1", nil, "opened_app", nil, created.Add(-time.Hour)))

			w := doRequest(r, http.MethodGet, "/activity/list"+tt.query, "")
			require.Equal(t, tt.wantStatus, w.Code)

			var entries []map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
			require.Len(t, entries, 2)
			assert.Equal(t, "vendor_added", entries[0]["action"])
			assert.Equal(t, map[string]interface{}{"vendor_id": float64(9)}, entries[0]["payload"])
			assert.Nil(t, entries[1]["project_id"])
			assert.Nil(t, entries[1]["payload"])
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_ListActivity_BadLimit(t *testing.T) {
	r, mock := setupHandler(t)

	w := doRequest(r, http.MethodGet, "/activity/list?limit=ten", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "limit: must be an integer")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Service
// ==========================

func TestInsert_WithinTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO activity_log`).
		WithArgs("demo_user", nil, "vendor_removed", `{"name":"Acme","vendor_id":9}`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, Insert(ctx, tx, "demo_user", "", "vendor_removed", map[string]interface{}{"vendor_id": 9, "name": "Acme"}))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_RejectsBadPayload(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = Insert(context.Background(), db, "u1", "", "x", json.RawMessage(`{broken`))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))

	err = Insert(context.Background(), db, "u1", "", "x", make(chan int))
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_List_Timeout(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id`).WillDelayFor(200 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	cfg := DefaultConfig()
	cfg.QueryTimeout = 20 * time.Millisecond
	svc := NewService(ServiceDependencies{DB: db}, cfg)

	_, err = svc.List(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeQueryTimeout))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{DefaultListLimit: 0, MaxListLimit: 10, QueryTimeout: time.Second}).Validate())
	assert.Error(t, (&Config{DefaultListLimit: 50, MaxListLimit: 10, QueryTimeout: time.Second}).Validate())
	assert.Error(t, (&Config{DefaultListLimit: 5, MaxListLimit: 10}).Validate())
}
