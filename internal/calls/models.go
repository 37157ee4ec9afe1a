package calls

import (
	"context"
	"time"

	"jessica-sub/internal/common/logger"
	"jessica-sub/internal/common/observability"
	"jessica-sub/internal/common/vapi"
)

type Input struct {
	CustomerNumber string                 `json:"customerNumber"`
	FirstMessage   string                 `json:"firstMessage,omitempty"`
	Context        map[string]interface{} `json:"context,omitempty"`
}

// TestCallRequest is the body of POST /calls/test. Empty fields fall back
// to the configured defaults.
type TestCallRequest struct {
	CustomerNumber string                 `json:"customer_number"`
	FirstMessage   string                 `json:"first_message"`
	Context        map[string]interface{} `json:"context"`
}

type Output struct {
	CallID          string    `json:"callId"`
	Status          string    `json:"status,omitempty"`
	Mode            string    `json:"mode"`
	RequestedNumber string    `json:"requestedNumber"`
	DialedNumber    string    `json:"dialedNumber"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CallCreator is the part of the Vapi client the service needs.
type CallCreator interface {
	CreateCall(ctx context.Context, call *vapi.CallRequest) (*vapi.Call, error)
}

type ServiceDependencies struct {
	Logger        logger.Logger
	Creator       CallCreator
	Observability *observability.Observability
}
