package events

import (
	"context"
	"time"

	"github.com/Smashkat12/crechebooks-sub005/internal/logger"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// WebhookEmitter POSTs events to a configured HTTP endpoint. Delivery is
// at-least-once and best-effort: transport failures and non-2xx
// responses are logged and reported back as an error the caller may
// downgrade, never re-raised as a hard failure by this package.
type WebhookEmitter struct {
	client *resty.Client
	url    string
	log    *logger.Logger
}

// WebhookConfig holds configuration for the webhook emitter.
type WebhookConfig struct {
	URL     string
	Timeout time.Duration
}

// NewWebhookEmitter creates a new WebhookEmitter.
func NewWebhookEmitter(cfg *WebhookConfig, log *logger.Logger) *WebhookEmitter {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	client.SetTimeout(timeout)

	return &WebhookEmitter{
		client: client,
		url:    cfg.URL,
		log:    log,
	}
}

// Emit delivers the event envelope to the webhook endpoint.
func (e *WebhookEmitter) Emit(ctx context.Context, name string, payload map[string]interface{}) error {
	envelope := map[string]interface{}{
		"id":        uuid.New().String(),
		"event":     name,
		"payload":   payload,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(envelope).
		Post(e.url)
	if err != nil {
		e.log.WithError(err).WithField("event", name).Warn("Webhook event delivery failed")
		return err
	}
	if resp.IsError() {
		e.log.WithFields(logger.Fields{
			"event":  name,
			"status": resp.StatusCode(),
		}).Warn("Webhook event rejected")
	}
	return nil
}
