package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"hydromon/internal/types"
)

// WebhookConfig holds the settings for the webhook alert channel.
type WebhookConfig struct {
	URL       string
	Secret    string // empty disables payload signing
	UserAgent string
	Timeout   time.Duration
}

// Compile-time assertion that WebhookChannel implements Channel.
var _ Channel = (*WebhookChannel)(nil)

// WebhookChannel POSTs alert requests as JSON to a configured URL, with an
// HMAC-SHA256 signature header when a secret is set. A circuit breaker
// prevents a dead endpoint from stalling evaluations: after five consecutive
// failures deliveries fail fast until the breaker half-opens.
type WebhookChannel struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	cfg     WebhookConfig
	clock   types.Clock
}

// NewWebhookChannel creates a WebhookChannel for the given config.
func NewWebhookChannel(cfg WebhookConfig, clock types.Clock) *WebhookChannel {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "alert-webhook",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	return &WebhookChannel{
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: cb,
		cfg:     cfg,
		clock:   clock,
	}
}

// Type returns the channel type.
func (c *WebhookChannel) Type() types.ChannelType { return types.ChannelWebhook }

// Deliver POSTs the alert to the configured URL through the circuit breaker.
func (c *WebhookChannel) Deliver(ctx context.Context, req types.AlertRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("alerts: failed to marshal webhook payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("alerts: failed to build webhook request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.Secret != "" {
		httpReq.Header.Set(SignatureHeader, SignPayload(payload, c.cfg.Secret, c.clock.Now()))
	}

	_, err = c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.client.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer func() {
			// Drain so the connection can be reused.
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
		}()
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return types.NewAppError(types.ErrCodeUpstreamAlert, "webhook delivery failed", err)
	}
	return nil
}
