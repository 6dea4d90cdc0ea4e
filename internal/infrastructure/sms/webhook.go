package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookSender publica el OTP como JSON en un endpoint HTTP del operador.
type WebhookSender struct {
	url        string
	token      string
	sender     string
	ttl        time.Duration
	httpClient *http.Client
}

// NewWebhookSender construye el adaptador. httpClient nil usa un cliente con timeout de 10 s.
func NewWebhookSender(url, token, sender string, ttl time.Duration, httpClient *http.Client) *WebhookSender {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookSender{url: url, token: token, sender: sender, ttl: ttl, httpClient: httpClient}
}

type webhookPayload struct {
	Channel   string `json:"channel"`
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
	Sender    string `json:"sender,omitempty"`
}

// SendOTP hace POST {channel, recipient, message, sender}; cualquier estado no 2xx es error.
func (s *WebhookSender) SendOTP(ctx context.Context, recipient, code string) error {
	body, err := json.Marshal(webhookPayload{
		Channel:   "sms",
		Recipient: recipient,
		Message:   otpMessage(code, s.ttl),
		Sender:    s.sender,
	})
	if err != nil {
		return fmt.Errorf("sms: serializar payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sms: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("sms: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("sms: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return fmt.Errorf("sms: webhook HTTP %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
