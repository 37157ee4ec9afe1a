package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"jessica-sub/internal/common/logger"
)

// LogRequest is the body of POST /activity/log.
type LogRequest struct {
	UserID    string          `json:"user_id"`
	ProjectID *string         `json:"project_id"`
	Action    string          `json:"action"`
	Payload   json.RawMessage `json:"payload"`
}

type Entry struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"user_id"`
	ProjectID *string         `json:"project_id"`
	Action    string          `json:"action"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type ServiceDependencies struct {
	DB     *sql.DB
	Logger logger.Logger
}
