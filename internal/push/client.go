// Package push forwards freshly created notifications to an external mobile
// push gateway. Delivery is best-effort: failures are retried briefly, and a
// circuit breaker stops hammering a gateway that is down.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/dealerdesk/crm-backend/internal/models"
)

type Client struct {
	gatewayURL string
	apiKey     string
	http       *http.Client
	breaker    *gobreaker.CircuitBreaker
	maxElapsed time.Duration
	log        *zap.SugaredLogger
}

func NewClient(gatewayURL, apiKey string, log *zap.SugaredLogger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "push-gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		http:       &http.Client{Timeout: 10 * time.Second},
		breaker:    cb,
		maxElapsed: 30 * time.Second,
		log:        log,
	}
}

// Deliver implements the change-stream consumer's Sink. It returns
// immediately; the forward happens on its own goroutine since sends are
// fire-and-forget.
func (c *Client) Deliver(n *models.Notification) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.maxElapsed)
		defer cancel()
		if err := c.Forward(ctx, n); err != nil {
			c.log.Warnw("push forward failed", "userId", n.UserID, "type", n.Type, "error", err)
		}
	}()
}

// Forward posts the notification to the gateway, retrying transient failures
// with exponential backoff behind the circuit breaker.
func (c *Client) Forward(ctx context.Context, n *models.Notification) error {
	body, err := json.Marshal(map[string]any{
		"userId":       n.UserID,
		"type":         n.Type,
		"customerName": n.CustomerName,
		"imageUrl":     n.ImageURL,
		"entityName":   n.EntityName,
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	operation := func() error {
		_, err := c.breaker.Execute(func() (any, error) {
			return nil, c.post(ctx, body)
		})
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return backoff.Permanent(err)
		}
		return err
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.maxElapsed
	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("push gateway returned %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return backoff.Permanent(fmt.Errorf("push gateway rejected payload: %d", resp.StatusCode))
	}
	return nil
}
