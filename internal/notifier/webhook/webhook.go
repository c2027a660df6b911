// Package webhook POSTs signals as JSON to a configured endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

// Webhook delivers signals to an HTTP endpoint
type Webhook struct {
	url     string
	headers map[string]string
	client  *http.Client
}

func New(url string, headers map[string]string) (*Webhook, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook: url is required")
	}
	return &Webhook{
		url:     url,
		headers: headers,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Send(ctx context.Context, sig core.ValidatedSignal) error {
	body, err := json.Marshal(payload(sig))
	if err != nil {
		return fmt.Errorf("webhook: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: server returned %d", resp.StatusCode)
	}
	return nil
}

func payload(sig core.ValidatedSignal) map[string]any {
	return map[string]any{
		"type":        "signal",
		"id":          sig.ID,
		"symbol":      sig.Symbol,
		"timeframe":   string(sig.Timeframe),
		"strategy":    sig.Strategy,
		"direction":   string(sig.Direction),
		"entry":       sig.Entry,
		"stop_loss":   sig.Stop,
		"take_profit": sig.Target,
		"confidence":  sig.Confidence,
		"risk_reward": sig.RiskReward,
		"notes":       sig.Notes,
		"timestamp":   sig.Timestamp.UTC().Format(time.RFC3339),
	}
}
