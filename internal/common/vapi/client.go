package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jessica-sub/internal/common/errors"
)

const DefaultBaseURL = "https://api.vapi.ai"

type Client struct {
	privateKey string
	baseURL    string
	httpClient *http.Client
}

type Customer struct {
	Number string `json:"number"`
}

type AssistantOverrides struct {
	FirstMessage string                 `json:"firstMessage,omitempty"`
	Context      map[string]interface{} `json:"context,omitempty"`
}

type CallRequest struct {
	AssistantID        string              `json:"assistantId"`
	PhoneNumberID      string              `json:"phoneNumberId"`
	Customer           Customer            `json:"customer"`
	AssistantOverrides *AssistantOverrides `json:"assistantOverrides,omitempty"`
}

// Call is the subset of the Vapi call object this repo reads.
type Call struct {
	ID            string    `json:"id"`
	Status        string    `json:"status,omitempty"`
	Type          string    `json:"type,omitempty"`
	AssistantID   string    `json:"assistantId,omitempty"`
	PhoneNumberID string    `json:"phoneNumberId,omitempty"`
	Customer      *Customer `json:"customer,omitempty"`
	EndedReason   string    `json:"endedReason,omitempty"`
	CreatedAt     string    `json:"createdAt,omitempty"`
}

func NewClient(privateKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		privateKey: privateKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) CreateCall(ctx context.Context, call *CallRequest) (*Call, error) {
	endpoint := fmt.Sprintf("%s/call", c.baseURL)

	jsonData, err := json.Marshal(call)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal call request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.privateKey)

	var created Call
	if err := c.do(req, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, fmt.Errorf("no call id in response")
	}
	return &created, nil
}

func (c *Client) GetCall(ctx context.Context, callID string) (*Call, error) {
	endpoint := fmt.Sprintf("%s/call/%s", c.baseURL, url.PathEscape(callID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.privateKey)

	var call Call
	if err := c.do(req, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 300 {
		return &errors.APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
