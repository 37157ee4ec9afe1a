// Package activity sends fire-and-forget activity entries to the jessica API.
package activity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"jessica-sub/internal/common/config"
	"jessica-sub/internal/common/errors"
	commonhttp "jessica-sub/internal/common/http"
	"jessica-sub/internal/common/logger"
	"jessica-sub/internal/common/metrics"
)

const logPath = "/activity/log"

type Config struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserID    string        `mapstructure:"user_id"`
	ProjectID string        `mapstructure:"project_id"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:   "http://localhost:8000",
		UserID:    "u1",
		ProjectID: "p1",
		Timeout:   10 * time.Second,
	}
}

// ConfigFrom takes the backend section of the application config.
func ConfigFrom(cfg *config.Config) *Config {
	return &Config{
		BaseURL:   cfg.Backend.BaseURL,
		UserID:    cfg.Backend.UserID,
		ProjectID: cfg.Backend.ProjectID,
		Timeout:   config.GetDuration(cfg.Backend.Timeout),
	}
}

// Entry is the body of POST /activity/log.
type Entry struct {
	UserID    string      `json:"user_id"`
	ProjectID string      `json:"project_id"`
	Action    string      `json:"action"`
	Payload   interface{} `json:"payload"`
}

type Client struct {
	http   *commonhttp.Client
	config *Config
	logger logger.Logger
}

func NewClient(cfg *Config, log logger.Logger, opts ...commonhttp.Option) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Client{
		http:   commonhttp.NewClient(cfg.BaseURL, cfg.Timeout, opts...),
		config: cfg,
		logger: logger.OrNoOp(log),
	}
}

// LogActivity records action with an arbitrary JSON payload. It never
// reports failure: every error, and any panic on the way, is logged at
// debug level and dropped.
func (c *Client) LogActivity(ctx context.Context, action string, payload interface{}) {
	if c == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.drop("panic", action, fmt.Errorf("recovered: %v", r))
		}
	}()

	entry := Entry{
		UserID:    c.config.UserID,
		ProjectID: c.config.ProjectID,
		Action:    action,
		Payload:   payload,
	}

	if err := c.http.DoJSON(ctx, http.MethodPost, logPath, nil, entry, nil); err != nil {
		c.drop(dropReason(err), action, err)
	}
}

func (c *Client) drop(reason, action string, err error) {
	metrics.ActivityLogsDropped.WithLabelValues(reason).Inc()
	c.logger.Debug("Activity log dropped", map[string]interface{}{
		"action": action,
		"reason": reason,
		"error":  err.Error(),
	})
}

func dropReason(err error) string {
	stdErr, ok := errors.AsStandardError(err)
	if !ok {
		return "client"
	}
	switch stdErr.Code {
	case errors.ErrCodeBackendStatus:
		return "status"
	case errors.ErrCodeBackendRequestFailed:
		return "request"
	}
	return "other"
}
