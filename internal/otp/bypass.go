package otp

import (
	"context"
	"errors"

	"github.com/ragavi522/knee-prime-assessment/internal/logger"
)

// BypassGateway accepts any non-empty code without contacting a provider.
// Demo and test use only: it disables real authentication, so it must be
// selected explicitly via config and is surfaced to operators both in the
// logs here and by the bypass-indicator response header.
type BypassGateway struct{}

func NewBypassGateway() *BypassGateway {
	logger.Warn("OTP bypass gateway active, any code will be accepted", nil)
	return &BypassGateway{}
}

func (g *BypassGateway) Send(ctx context.Context, phone string) error {
	logger.Warn("bypass mode: skipping SMS delivery", map[string]any{
		"phone": phone,
	})
	return nil
}

func (g *BypassGateway) Verify(ctx context.Context, phone string, code string) error {
	if code == "" {
		return errors.New("otp: empty code")
	}

	logger.Warn("bypass mode: accepting code without verification", map[string]any{
		"phone": phone,
	})
	return nil
}
