package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/leonfashion/fashionshop-backend/pkg/config"
)

// WebhookPoster pushes notification events to an external endpoint.
type WebhookPoster interface {
	Post(ctx context.Context, event Event) error
}

// Event is the wire payload delivered to the admin webhook.
type Event struct {
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// HTTPWebhookPoster delivers events over HTTP POST. A non-2xx response is an
// error so callers can log the failure.
type HTTPWebhookPoster struct {
	url    string
	client *http.Client
}

func NewHTTPWebhookPoster(cfg config.WebhookConfig) *HTTPWebhookPoster {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPWebhookPoster{
		url:    cfg.AdminURL,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *HTTPWebhookPoster) Post(ctx context.Context, event Event) error {
	if p == nil || p.url == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding webhook event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
	}
	return nil
}
