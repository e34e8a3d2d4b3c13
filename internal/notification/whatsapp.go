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

// WhatsAppConfig configures the WhatsApp gateway client.
type WhatsAppConfig struct {
	APIURL      string
	APIKey      string
	CountryCode string
	Timeout     time.Duration
}

// WhatsAppSender delivers welcome messages through the WhatsApp HTTP gateway.
type WhatsAppSender struct {
	apiURL      string
	apiKey      string
	countryCode string
	client      *http.Client
	logger      *slog.Logger
}

func NewWhatsAppSender(cfg WhatsAppConfig, logger *slog.Logger) *WhatsAppSender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	countryCode := cfg.CountryCode
	if countryCode == "" {
		countryCode = "55"
	}

	return &WhatsAppSender{
		apiURL:      cfg.APIURL,
		apiKey:      cfg.APIKey,
		countryCode: countryCode,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// SendWelcome posts the welcome text to the gateway. Success is HTTP 200;
// any other status or transport error is a delivery failure.
func (s *WhatsAppSender) SendWelcome(ctx context.Context, msg Welcome) error {
	number, err := NormalizePhone(msg.Phone, s.countryCode)
	if err != nil {
		s.logger.Warn("whatsapp: rejected phone number", "error", err, "recipient", msg.Name)
		return err
	}

	text := fmt.Sprintf(
		"Olá %s! Seja bem-vindo ao Sistema de Ponto Eletrônico como %s. Em breve você receberá um email com suas credenciais de acesso.",
		msg.Name, roleLabel(msg.Role))

	payload, err := json.Marshal(map[string]string{
		"number": number,
		"text":   text,
	})
	if err != nil {
		return fmt.Errorf("whatsapp: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("whatsapp: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("whatsapp: request failed", "error", err, "number", number)
		return fmt.Errorf("whatsapp: send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("whatsapp: gateway error", "status_code", resp.StatusCode, "number", number)
		return fmt.Errorf("whatsapp: send failed: status %d", resp.StatusCode)
	}

	s.logger.Info("whatsapp: message sent", "number", number, "role", msg.Role)
	return nil
}
