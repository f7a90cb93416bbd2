package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/quietfall/gainbot/internal/shared"
)

// WebhookNotifier posts status messages to a chat webhook as JSON.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *log.Logger
}

// NewWebhookNotifier creates a notifier for the given webhook URL.
func NewWebhookNotifier(url string, logger *log.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Send implements [Notifier].
func (n *WebhookNotifier) Send(ctx context.Context, message string) error {
	payload, err := json.Marshal(map[string]string{"content": message})
	if err != nil {
		return fmt.Errorf("%w: encoding payload: %v", shared.ErrAPIRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: webhook returned %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	n.logger.Debug("notification delivered", "bytes", len(payload))
	return nil
}

// LogNotifier writes notifications to the logger instead of a webhook.
// Used when no webhook URL is configured.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a notifier that logs messages locally.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send implements [Notifier].
func (n *LogNotifier) Send(_ context.Context, message string) error {
	n.logger.Info(message)
	return nil
}
