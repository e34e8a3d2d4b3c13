package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// EmailConfig configures the transactional mail client.
type EmailConfig struct {
	APIURL  string
	APIKey  string
	From    string
	Timeout time.Duration
}

// EmailSender delivers welcome emails through a transactional mail API.
type EmailSender struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
	logger *slog.Logger
}

func NewEmailSender(cfg EmailConfig, logger *slog.Logger) *EmailSender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &EmailSender{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		from:   cfg.From,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// SendWelcome posts the welcome email with the temporary credential. Non-2xx
// responses and transport errors map to the same failure; the response body
// is not consumed beyond success/failure.
func (s *EmailSender) SendWelcome(ctx context.Context, msg Welcome) error {
	payload, err := json.Marshal(map[string]interface{}{
		"from":    s.from,
		"to":      msg.Email,
		"subject": "Bem-vindo ao Sistema de Ponto Eletrônico",
		"template": map[string]string{
			"name":               msg.Name,
			"company":            msg.Company,
			"temporary_password": msg.Credential,
			"user_type":          msg.Role,
		},
	})
	if err != nil {
		return fmt.Errorf("email: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("email: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("email: request failed", "error", err, "to", msg.Email)
		return fmt.Errorf("email: send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		s.logger.Error("email: provider error", "status_code", resp.StatusCode, "to", msg.Email)
		return fmt.Errorf("email: send failed: status %d", resp.StatusCode)
	}

	s.logger.Info("email: message sent", "to", msg.Email, "role", msg.Role)
	return nil
}
