// Package vendors wraps the preferred-vendor endpoints of the jessica API.
//
// Responses are decoded into Vendor and RemoveResult, so fields outside
// those types are dropped and a null string reads as empty. A non-2xx
// answer is returned as a BACKEND_STATUS_ERROR wrapping *errors.APIError,
// whose Body holds the server's response untouched.
package vendors

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"jessica-sub/internal/common/config"
	commonhttp "jessica-sub/internal/common/http"
	"jessica-sub/internal/common/logger"
)

const (
	listPath   = "/vendors/"
	addPath    = "/vendors/add"
	removePath = "/vendors/remove"
)

type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	UserID  string        `mapstructure:"user_id"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://127.0.0.1:8000",
		UserID:  "demo_user",
		Timeout: 10 * time.Second,
	}
}

func ConfigFrom(cfg *config.Config) *Config {
	return &Config{
		BaseURL: cfg.Backend.BaseURL,
		UserID:  cfg.Backend.UserID,
		Timeout: config.GetDuration(cfg.Backend.Timeout),
	}
}

// Vendor is a preferred vendor as returned by the API.
type Vendor struct {
	ID        int64  `json:"id,omitempty"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Trade     string `json:"trade"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// RemoveResult is the body of a successful remove. ID is nil when nothing
// matched.
type RemoveResult struct {
	Status string `json:"status"`
	ID     *int64 `json:"id"`
}

type addRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Trade  string `json:"trade"`
}

type removeRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
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

// LoadPreferredVendors lists the configured user's vendors.
func (c *Client) LoadPreferredVendors(ctx context.Context) ([]Vendor, error) {
	query := url.Values{"user_id": {c.config.UserID}}

	var list []Vendor
	if err := c.http.DoJSON(ctx, http.MethodGet, listPath, query, nil, &list); err != nil {
		return nil, fmt.Errorf("load preferred vendors: %w", err)
	}

	c.logger.Debug("Loaded preferred vendors", map[string]interface{}{
		"userId": c.config.UserID,
		"count":  len(list),
	})
	return list, nil
}

// AddPreferredVendor stores a vendor and returns the record the API created.
func (c *Client) AddPreferredVendor(ctx context.Context, name, phone, trade string) (*Vendor, error) {
	req := addRequest{
		UserID: c.config.UserID,
		Name:   name,
		Phone:  phone,
		Trade:  trade,
	}

	var created Vendor
	if err := c.http.DoJSON(ctx, http.MethodPost, addPath, nil, req, &created); err != nil {
		return nil, fmt.Errorf("add preferred vendor %q: %w", name, err)
	}

	c.logger.Debug("Added preferred vendor", map[string]interface{}{
		"userId":   c.config.UserID,
		"vendorId": created.ID,
		"name":     created.Name,
	})
	return &created, nil
}

// RemovePreferredVendor deletes the configured user's vendor called name.
func (c *Client) RemovePreferredVendor(ctx context.Context, name string) (*RemoveResult, error) {
	req := removeRequest{
		UserID: c.config.UserID,
		Name:   name,
	}

	var result RemoveResult
	if err := c.http.DoJSON(ctx, http.MethodPost, removePath, nil, req, &result); err != nil {
		return nil, fmt.Errorf("remove preferred vendor %q: %w", name, err)
	}

	c.logger.Debug("Removed preferred vendor", map[string]interface{}{
		"userId": c.config.UserID,
		"name":   name,
		"status": result.Status,
	})
	return &result, nil
}
