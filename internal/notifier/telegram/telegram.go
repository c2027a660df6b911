// Package telegram posts signals to a chat via the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
)

// Telegram sends signal messages through a bot
type Telegram struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

func New(botToken, chatID string) (*Telegram, error) {
	if botToken == "" {
		return nil, fmt.Errorf("telegram: bot_token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("telegram: chat_id is required")
	}
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  "https://api.telegram.org",
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Send(ctx context.Context, sig core.ValidatedSignal) error {
	return t.sendMessage(ctx, FormatSignal(sig))
}

// FormatSignal renders the Markdown message body
func FormatSignal(sig core.ValidatedSignal) string {
	emoji := "📈"
	action := "BUY"
	if sig.Direction == core.DirectionShort {
		emoji = "📉"
		action = "SELL"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s *%s %s* (%s)\n", emoji, action, sig.Symbol, sig.Timeframe))
	sb.WriteString(fmt.Sprintf("🎯 Strategy: %s\n", sig.Strategy))
	sb.WriteString(fmt.Sprintf("💰 Entry: %.2f\n", sig.Entry))
	sb.WriteString(fmt.Sprintf("🛑 Stop: %.2f\n", sig.Stop))
	sb.WriteString(fmt.Sprintf("✅ Target: %.2f\n", sig.Target))
	sb.WriteString(fmt.Sprintf("⚖️ R:R: %.2f | Confidence: %.0f%%\n", sig.RiskReward, sig.Confidence*100))
	if sig.Notes != "" {
		sb.WriteString(fmt.Sprintf("💡 %s\n", sig.Notes))
	}
	sb.WriteString(fmt.Sprintf("⏰ %s", sig.Timestamp.UTC().Format("2006-01-02 15:04:05")))
	return sb.String()
}

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	payload := map[string]any{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("telegram: API error (status %d): %v", resp.StatusCode, result)
	}
	return nil
}
