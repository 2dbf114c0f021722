package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxBatchItems caps the number of opportunities in one webhook message.
const maxBatchItems = 25

// WebhookNotifier implements Notifier by POSTing JSON to a configured URL.
type WebhookNotifier struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// WebhookOption configures a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithWebhookHTTPClient sets a custom HTTP client.
func WithWebhookHTTPClient(c *http.Client) WebhookOption {
	return func(w *WebhookNotifier) {
		w.client = c
	}
}

// WithWebhookHeaders sets extra request headers (auth tokens and the like).
func WithWebhookHeaders(h map[string]string) WebhookOption {
	return func(w *WebhookNotifier) {
		w.headers = h
	}
}

// NewWebhookNotifier creates a new WebhookNotifier.
func NewWebhookNotifier(url string, opts ...WebhookOption) *WebhookNotifier {
	w := &WebhookNotifier{
		url:    url,
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// webhookMessage is the JSON structure sent to the webhook.
type webhookMessage struct {
	Event         string               `json:"event"`
	Opportunities []OpportunityPayload `json:"opportunities"`
	Truncated     int                  `json:"truncated,omitempty"`
}

// SendOpportunity sends a single opportunity.
func (w *WebhookNotifier) SendOpportunity(ctx context.Context, opp *OpportunityPayload) error {
	return w.post(ctx, webhookMessage{
		Event:         "opportunity",
		Opportunities: []OpportunityPayload{*opp},
	})
}

// SendBatch sends multiple opportunities as a single message, truncating
// past maxBatchItems.
func (w *WebhookNotifier) SendBatch(ctx context.Context, opps []OpportunityPayload) error {
	if len(opps) == 0 {
		return nil
	}

	msg := webhookMessage{Event: "opportunity_batch"}
	limit := min(len(opps), maxBatchItems)
	msg.Opportunities = opps[:limit]
	if len(opps) > limit {
		msg.Truncated = len(opps) - limit
	}

	return w.post(ctx, msg)
}

func (w *WebhookNotifier) post(ctx context.Context, msg webhookMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		w.url,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("webhook rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("webhook returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
