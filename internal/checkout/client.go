package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kartikmehra/shopkart-backend/pkg/config"
	"github.com/kartikmehra/shopkart-backend/pkg/types"
)

const placeOrderPath = "/api/v1/orders/place"

// ErrInvalidResponseFormat marks a response whose declared content type is
// not JSON. The body is never parsed in that case.
var ErrInvalidResponseFormat = errors.New("checkout: response is not json")

// ServerError is a failure the endpoint reported. Message is the
// server-supplied error string, or the generic fallback when absent.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("order endpoint returned %d: %s", e.StatusCode, e.Message)
}

// Client submits order payloads to the order submission endpoint over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds the order submission client.
func NewClient(cfg config.CheckoutConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// Submit posts the payload and interprets the response. The idempotency key
// travels in the Idempotency-Key header so the server can deduplicate
// retries of the same submission.
func (c *Client) Submit(ctx context.Context, payload OrderPayload) (*PlacedOrder, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+placeOrderPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if payload.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", payload.IdempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacting order endpoint: %w", err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return nil, fmt.Errorf("%w (content type %q)", ErrInvalidResponseFormat, contentType)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := MsgPlaceOrderFailed
		var envelope types.ErrorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
			message = envelope.Error
		}
		return nil, &ServerError{StatusCode: resp.StatusCode, Message: message}
	}

	var placed PlacedOrder
	if err := json.NewDecoder(resp.Body).Decode(&placed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
	}
	return &placed, nil
}
