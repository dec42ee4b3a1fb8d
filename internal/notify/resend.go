// Package notify delivers outbound email through the Resend HTTP API.
// Delivery is best-effort: failures are logged by callers and never escalate
// into the operation that triggered the notification.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/devanshjhaa/TicketsManage/internal/config"
)

const resendEndpoint = "https://api.resend.com/emails"

// EmailSender sends a single HTML email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// ResendClient posts emails to the Resend API. Without an API key it runs in
// dry-run mode and only logs what would have been sent.
type ResendClient struct {
	apiKey string
	from   string
	http   *http.Client
	logger *zap.Logger
}

// NewResendClient builds the client.
func NewResendClient(cfg config.NotificationConfig, logger *zap.Logger) *ResendClient {
	return &ResendClient{
		apiKey: cfg.ResendAPIKey,
		from:   cfg.EmailFrom,
		http:   &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send delivers one email.
func (c *ResendClient) Send(ctx context.Context, to, subject, html string) error {
	if c.apiKey == "" {
		c.logger.Debug("email dry-run",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	body, err := json.Marshal(resendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 300 {
		return fmt.Errorf("resend api returned status %d", resp.StatusCode)
	}
	return nil
}
