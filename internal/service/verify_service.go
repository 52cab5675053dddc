package service

import (
	"context"
	"encoding/json"

	"webapp_validator/internal/domain"
	"webapp_validator/internal/logger"
)

// VerdictObserver is notified once per handled request.
type VerdictObserver func(status domain.Status, transport string)

// VerifyService turns a request body into the response envelope. It is
// shared by the HTTP and WebSocket transports.
type VerifyService struct {
	validator *Validator
	messages  domain.Messages
	observe   VerdictObserver
}

func NewVerifyService(validator *Validator, messages domain.Messages, observe VerdictObserver) *VerifyService {
	return &VerifyService{
		validator: validator,
		messages:  messages,
		observe:   observe,
	}
}

// HandleBody decodes a JSON verify request and validates its initData. A
// body that is not a JSON object is treated as a missing payload.
func (s *VerifyService) HandleBody(ctx context.Context, body []byte, transport string) (domain.Response, domain.VerificationResult) {
	var req domain.VerifyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		logger.WithContext(ctx).Debug("malformed verify request", "transport", transport, "error", err)
		req = domain.VerifyRequest{}
	}
	return s.HandleInitData(ctx, req.Payload(), transport)
}

// HandleInitData validates raw initData and builds the envelope.
func (s *VerifyService) HandleInitData(ctx context.Context, initData, transport string) (domain.Response, domain.VerificationResult) {
	res := s.validator.Validate(initData)

	logger.WithContext(ctx).Debug("initData checked", "transport", transport, "result", string(res.Status))
	if s.observe != nil {
		s.observe(res.Status, transport)
	}
	return domain.NewResponse(res, s.messages), res
}

// MalformedResponse is the envelope for requests that could not be read.
func (s *VerifyService) MalformedResponse() domain.Response {
	return domain.ErrorResponse(s.messages.MissingData)
}
