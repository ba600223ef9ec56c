package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ragavi522/knee-prime-assessment/internal/logger"
)

// HTTPGateway talks to the external SMS verification service.
type HTTPGateway struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPGateway(baseURL, token string) (*HTTPGateway, error) {
	if baseURL == "" {
		return nil, errors.New("otp gateway config missing base URL")
	}

	return &HTTPGateway{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (g *HTTPGateway) Send(ctx context.Context, phone string) error {
	return g.post(ctx, "/otp/send", map[string]string{
		"phone": phone,
	})
}

func (g *HTTPGateway) Verify(ctx context.Context, phone string, code string) error {
	return g.post(ctx, "/otp/check", map[string]string{
		"phone": phone,
		"code":  code,
	})
}

func (g *HTTPGateway) post(ctx context.Context, path string, body map[string]string) error {

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("otp: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		g.baseURL+path,
		bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("otp: failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		logger.Error("otp gateway request failed", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		return ErrGateway
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("otp gateway returned error", map[string]any{
			"path":   path,
			"status": resp.StatusCode,
		})
		return ErrGateway
	}

	return nil
}
