package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const brevoAPIURL = "https://api.brevo.com/v3/smtp/email"

// BrevoMailer sends through the Brevo transactional email HTTP API.
type BrevoMailer struct {
	apiKey     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
}

func NewBrevoMailer(apiKey, fromEmail, fromName string) (*BrevoMailer, error) {
	if apiKey == "" || fromEmail == "" {
		return nil, errors.New("mailer: brevo requires an api key and sender address")
	}

	return &BrevoMailer{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

type brevoSendRequest struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func (m *BrevoMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" || msg.Subject == "" || msg.HTML == "" {
		return errors.New("mailer: message needs to, subject, and html content")
	}

	body, err := json.Marshal(brevoSendRequest{
		Sender:      map[string]string{"email": m.fromEmail, "name": m.fromName},
		To:          []map[string]string{{"email": msg.To}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("mailer: failed to encode brevo request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mailer: failed to build brevo request: %w", err)
	}
	req.Header.Set("api-key", m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mailer: brevo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var detail map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
			return fmt.Errorf("mailer: brevo API error: status %d", resp.StatusCode)
		}
		return fmt.Errorf("mailer: brevo API error: status %d, body %v", resp.StatusCode, detail)
	}

	return nil
}
