// Package razorpay is a minimal client for the Razorpay Orders and Payments APIs.
package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"alumni-platform/internal/core/ports"

	"github.com/rs/zerolog"
)

const maxResponseBytes = 1 << 20

// Client implements ports.PaymentGateway over the Razorpay REST API.
type Client struct {
	BaseURL    string
	KeyID      string
	KeySecret  string
	HTTPClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a Razorpay client. timeout bounds every HTTP round trip;
// callers may tighten it further through the request context.
func NewClient(baseURL, keyID, keySecret string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		KeyID:     keyID,
		KeySecret: keySecret,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("component", "razorpay_client").Logger(),
	}
}

type createOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type paymentResponse struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	OrderID  string `json:"order_id"`
	Method   string `json:"method"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
}

// APIError is the error body Razorpay returns on non-2xx responses.
type APIError struct {
	StatusCode int `json:"-"`
	Detail     struct {
		Code        string `json:"code"`
		Description string `json:"description"`
		Field       string `json:"field"`
		Reason      string `json:"reason"`
	} `json:"error"`
}

func (e *APIError) Error() string {
	if e.Detail.Description != "" {
		return e.Detail.Description
	}
	if e.Detail.Code != "" {
		return fmt.Sprintf("razorpay api error: %s (status %d)", e.Detail.Code, e.StatusCode)
	}
	return fmt.Sprintf("razorpay api error (status %d)", e.StatusCode)
}

// CreateOrder creates a remote order. Amount is in minor units.
func (c *Client) CreateOrder(ctx context.Context, req ports.OrderRequest) (*ports.GatewayOrder, error) {
	payload := createOrderRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
	}
	if req.AutoCapture {
		payload.PaymentCapture = 1
	}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", "create_order", payload, &resp); err != nil {
		return nil, err
	}

	return &ports.GatewayOrder{
		ID:       resp.ID,
		Amount:   resp.Amount,
		Currency: resp.Currency,
		Receipt:  resp.Receipt,
		Status:   resp.Status,
	}, nil
}

// FetchPayment retrieves the current state of a payment.
func (c *Client) FetchPayment(ctx context.Context, paymentRef string) (*ports.GatewayPayment, error) {
	var resp paymentResponse
	if err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(paymentRef), "fetch_payment", nil, &resp); err != nil {
		return nil, err
	}

	return &ports.GatewayPayment{
		ID:       resp.ID,
		OrderID:  resp.OrderID,
		Amount:   resp.Amount,
		Currency: resp.Currency,
		Status:   resp.Status,
		Method:   resp.Method,
		Email:    resp.Email,
		Contact:  resp.Contact,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path, op string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(c.KeyID, c.KeySecret)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute %s request: %w", op, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(bodyBytes, apiErr); err != nil {
			c.log.Warn().Str("op", op).Int("status", resp.StatusCode).Msg("non-2xx response (unparsable error body)")
			return apiErr
		}
		c.log.Warn().
			Str("op", op).
			Int("status", resp.StatusCode).
			Str("code", apiErr.Detail.Code).
			Str("description", apiErr.Detail.Description).
			Msg("gateway rejected request")
		return apiErr
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}

	c.log.Debug().Str("op", op).Dur("latency", time.Since(start)).Msg("gateway call ok")
	return nil
}
