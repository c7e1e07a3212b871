package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	errs "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/error"
	coreport "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/port/core"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/port/payment"
)

// DefaultBaseURL is the payment processor's API endpoint
const DefaultBaseURL = "https://api.stripe.com"

// Config carries the processor client settings
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// StripeClient implements the payment.Gateway port over the processor's
// REST API. The API is form-encoded on write, JSON on read.
type StripeClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     coreport.Logger
}

// NewStripeClient creates a new payment gateway client
func NewStripeClient(cfg Config, logger coreport.Logger) *StripeClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &StripeClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		logger: logger,
	}
}

// customer is the processor's customer resource
type customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// customerList is the processor's customer search response
type customerList struct {
	Data []customer `json:"data"`
}

// checkoutSession is the processor's checkout session resource
type checkoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

// apiError is the processor's error envelope
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// FindCustomerByEmail looks up an existing customer by email. Lookup only,
// never creates. Returns nil when there is no match; when the processor
// returns several matches the first wins.
func (c *StripeClient) FindCustomerByEmail(ctx context.Context, email string) (*payment.Customer, error) {
	query := url.Values{}
	query.Set("email", email)
	query.Set("limit", "1")

	var list customerList
	if err := c.do(ctx, http.MethodGet, "/v1/customers?"+query.Encode(), nil, &list, "customer lookup"); err != nil {
		return nil, err
	}

	if len(list.Data) == 0 {
		return nil, nil
	}

	c.logger.Debug("Found existing gateway customer", map[string]any{
		"customer_id": list.Data[0].ID,
	})
	return &payment.Customer{
		ID:    list.Data[0].ID,
		Email: list.Data[0].Email,
	}, nil
}

// CreateCheckoutSession opens a hosted payment page for one donation
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, params payment.SessionParams) (*payment.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.Amount, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.Description)

	if params.CustomerID != "" {
		form.Set("customer", params.CustomerID)
	} else if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}

	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	var session checkoutSession
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &session, "session creation"); err != nil {
		return nil, err
	}

	c.logger.Info("Checkout session created", map[string]any{
		"session_id": session.ID,
		"amount":     params.Amount,
		"currency":   params.Currency,
	})
	return &payment.CheckoutSession{
		ID:            session.ID,
		URL:           session.URL,
		PaymentStatus: session.PaymentStatus,
		Metadata:      session.Metadata,
	}, nil
}

// GetCheckoutSession retrieves a session with its metadata
func (c *StripeClient) GetCheckoutSession(ctx context.Context, id string) (*payment.CheckoutSession, error) {
	var session checkoutSession
	if err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(id), nil, &session, "session lookup"); err != nil {
		return nil, err
	}

	return &payment.CheckoutSession{
		ID:            session.ID,
		URL:           session.URL,
		PaymentStatus: session.PaymentStatus,
		Metadata:      session.Metadata,
	}, nil
}

// do runs one API call and decodes the response into out. Any non-2xx
// response surfaces as a GatewayError carrying the processor's message.
func (c *StripeClient) do(ctx context.Context, method, path string, form url.Values, out any, op string) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errs.NewGatewayError(op, "failed to build request", 0, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.NewGatewayError(op, "request failed", 0, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewGatewayError(op, "failed to read response", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := c.errorMessage(payload)
		c.logger.Warn("Gateway call rejected", map[string]any{
			"operation":   op,
			"status_code": resp.StatusCode,
			"message":     message,
		})
		return errs.NewGatewayError(op, message, resp.StatusCode, nil)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return errs.NewGatewayError(op, "failed to decode response", resp.StatusCode, err)
	}
	return nil
}

// errorMessage pulls the processor's message out of an error payload
func (c *StripeClient) errorMessage(payload []byte) string {
	var decoded apiError
	if err := json.Unmarshal(payload, &decoded); err == nil && decoded.Error.Message != "" {
		return decoded.Error.Message
	}
	return "unexpected response from payment processor"
}
