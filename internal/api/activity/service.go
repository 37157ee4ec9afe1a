package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"jessica-sub/internal/common/errors"
	"jessica-sub/internal/common/logger"
)

const insertQuery = `
	INSERT INTO activity_log (user_id, project_id, action, payload)
	VALUES ($1, $2, $3, $4)`

const listQuery = `
	SELECT id, user_id, project_id, action, payload, created_at
	FROM activity_log
	ORDER BY created_at DESC
	LIMIT $1`

type Service struct {
	db     *sql.DB
	logger logger.Logger
	config *Config
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		db:     deps.DB,
		logger: logger.OrNoOp(deps.Logger),
		config: config,
	}
}

// Log stores one activity entry.
func (s *Service) Log(ctx context.Context, req *LogRequest) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	var projectID string
	if req.ProjectID != nil {
		projectID = *req.ProjectID
	}

	if err := Insert(ctx, s.db, req.UserID, projectID, req.Action, req.Payload); err != nil {
		return err
	}

	s.logger.Debug("Activity logged", map[string]interface{}{
		"userId": req.UserID,
		"action": req.Action,
	})
	return nil
}

// List returns the newest entries first. limit <= 0 selects the default and
// anything above the maximum is clamped.
func (s *Service) List(ctx context.Context, limit int) ([]Entry, error) {
	limit = s.clampLimit(limit)

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, listQuery, limit)
	if err != nil {
		return nil, queryError(ctx, "activity.list", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			e         Entry
			projectID sql.NullString
			payload   []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &projectID, &e.Action, &payload, &e.CreatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("activity.list", err)
		}
		if projectID.Valid {
			p := projectID.String
			e.ProjectID = &p
		}
		if len(payload) > 0 {
			e.Payload = json.RawMessage(payload)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, "activity.list", err)
	}
	return entries, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.config.DefaultListLimit
	}
	if limit > s.config.MaxListLimit {
		return s.config.MaxListLimit
	}
	return limit
}

// Insert writes an activity row through exec, so callers can make it part of
// their own transaction. An empty projectID is stored as NULL. payload is
// stored as-is when it is already JSON, otherwise it is marshaled.
func Insert(ctx context.Context, exec Execer, userID, projectID, action string, payload interface{}) error {
	encoded, err := encodePayload(payload)
	if err != nil {
		return errors.NewValidationFailedError(fmt.Sprintf("payload: %v", err))
	}

	project := sql.NullString{String: projectID, Valid: projectID != ""}
	if _, err := exec.ExecContext(ctx, insertQuery, userID, project, action, encoded); err != nil {
		return queryError(ctx, "activity.insert", err)
	}
	return nil
}

func encodePayload(payload interface{}) (sql.NullString, error) {
	switch p := payload.(type) {
	case nil:
		return sql.NullString{}, nil
	case json.RawMessage:
		if len(p) == 0 || string(p) == "null" {
			return sql.NullString{}, nil
		}
		if !json.Valid(p) {
			return sql.NullString{}, fmt.Errorf("invalid JSON")
		}
		return sql.NullString{String: string(p), Valid: true}, nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func queryError(ctx context.Context, queryType string, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return errors.NewQueryTimeoutError(queryType)
	}
	return errors.NewQueryExecutionFailedError(queryType, err)
}
