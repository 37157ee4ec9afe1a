package calls

import (
	"context"
	stderrors "errors"
	"net"
	"time"

	"jessica-sub/internal/common/errors"
	"jessica-sub/internal/common/logger"
	"jessica-sub/internal/common/metrics"
	"jessica-sub/internal/common/observability"
	"jessica-sub/internal/common/vapi"
)

type Service struct {
	config  *Config
	logger  logger.Logger
	creator CallCreator
	guard   *Guard
	obs     *observability.Observability
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	creator := deps.Creator
	if creator == nil && config.PrivateKey != "" {
		creator = vapi.NewClient(config.PrivateKey, config.BaseURL, config.Timeout)
	}

	return &Service{
		config:  config,
		logger:  logger.OrNoOp(deps.Logger),
		creator: creator,
		guard:   NewGuard(config.Mode, config.SafeTestNumber),
		obs:     deps.Observability,
	}
}

// CheckConfig reports the first missing Vapi credential as CALL_NOT_CONFIGURED.
func (s *Service) CheckConfig() error {
	if missing := s.config.missingCredential(); missing != "" {
		return errors.NewCallNotConfiguredError(missing)
	}
	if s.creator == nil {
		return errors.NewCallNotConfiguredError("vapi client")
	}
	return nil
}

// PlaceTestCall places a single outbound call through the guard.
func (s *Service) PlaceTestCall(ctx context.Context, customerNumber, firstMessage string) (*Output, error) {
	return s.Execute(ctx, &Input{
		CustomerNumber: customerNumber,
		FirstMessage:   firstMessage,
	})
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	mode := s.guard.Mode()

	if err := s.CheckConfig(); err != nil {
		s.record(ctx, mode, "not_configured", 0)
		return nil, err
	}

	dialed, err := s.guard.Destination(input.CustomerNumber)
	if err != nil {
		s.record(ctx, mode, "rejected", 0)
		return nil, errors.NewValidationFailedError(err.Error())
	}

	if dialed != input.CustomerNumber {
		s.logger.Info("Call guard replaced destination", map[string]interface{}{
			"mode":      mode,
			"requested": input.CustomerNumber,
			"dialed":    dialed,
		})
	}

	req := &vapi.CallRequest{
		AssistantID:   s.config.AssistantID,
		PhoneNumberID: s.config.PhoneNumberID,
		Customer:      vapi.Customer{Number: dialed},
	}
	if input.FirstMessage != "" || len(input.Context) > 0 {
		req.AssistantOverrides = &vapi.AssistantOverrides{
			FirstMessage: input.FirstMessage,
			Context:      input.Context,
		}
	}

	s.logger.Info("Placing outbound call", map[string]interface{}{
		"mode":          mode,
		"assistantId":   s.config.AssistantID,
		"phoneNumberId": s.config.PhoneNumberID,
		"number":        dialed,
	})

	start := time.Now()
	call, err := s.creator.CreateCall(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		if isTimeout(err) {
			s.record(ctx, mode, "timeout", elapsed)
			return nil, errors.NewCallTimeoutError(err)
		}
		s.record(ctx, mode, "failed", elapsed)
		return nil, errors.NewCallCreateFailedError(err)
	}

	s.record(ctx, mode, "success", elapsed)
	s.logger.Info("Call created", map[string]interface{}{
		"callId": call.ID,
		"status": call.Status,
		"mode":   mode,
	})

	return &Output{
		CallID:          call.ID,
		Status:          call.Status,
		Mode:            mode,
		RequestedNumber: input.CustomerNumber,
		DialedNumber:    dialed,
		CreatedAt:       time.Now(),
	}, nil
}

func (s *Service) record(ctx context.Context, mode, result string, elapsed time.Duration) {
	metrics.CallsPlaced.WithLabelValues(mode, result).Inc()
	s.obs.RecordCallPlaced(ctx, mode, result)
	if elapsed > 0 {
		s.obs.RecordCallDuration(ctx, elapsed, result)
	}
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
