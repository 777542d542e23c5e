package stripeadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"
	"funded/contexts/fundraising/campaign-service/ports"
	"funded/internal/platform/resilience"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL  = "https://api.stripe.com"
	checkoutPath    = "/v1/checkout/sessions"
	breakerName     = "stripe-checkout"
	defaultTimeout  = 10 * time.Second
	maxErrorMessage = 200
)

type CheckoutClientConfig struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	ServiceName string
}

// CheckoutClient creates hosted checkout sessions through the provider REST
// API. Calls go through a circuit breaker so a failing provider fails fast.
type CheckoutClient struct {
	http    *resty.Client
	breaker *resilience.CircuitBreaker
	logger  *slog.Logger
}

type sessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewCheckoutClient(cfg CheckoutClientConfig, logger *slog.Logger) (*CheckoutClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("stripe api key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	service := cfg.ServiceName
	if service == "" {
		service = "funded"
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(strings.TrimSpace(cfg.APIKey)).
		SetHeader("Accept", "application/json")

	return &CheckoutClient{
		http:    client,
		breaker: resilience.NewCircuitBreaker(breakerName, service, logger),
		logger:  logger,
	}, nil
}

func (c *CheckoutClient) CreateCheckoutSession(ctx context.Context, req ports.CheckoutSessionRequest) (ports.CheckoutSession, error) {
	form := checkoutForm(req)

	result, err := c.breaker.Execute(func() (any, error) {
		request := c.http.R().
			SetContext(ctx).
			SetFormData(form).
			SetResult(&sessionResponse{}).
			SetError(&errorResponse{})
		if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
			request.SetHeader("Idempotency-Key", key)
		}

		resp, err := request.Post(checkoutPath)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, providerError(resp)
		}
		session, _ := resp.Result().(*sessionResponse)
		if session == nil || strings.TrimSpace(session.ID) == "" || strings.TrimSpace(session.URL) == "" {
			return nil, errors.New("checkout session response missing id or url")
		}
		return ports.CheckoutSession{SessionID: session.ID, URL: session.URL}, nil
	})
	if err != nil {
		c.logger.Error("stripe checkout session request failed",
			"event", "stripe_checkout_failed",
			"module", "fundraising/campaign-service",
			"layer", "adapter",
			"error", err.Error(),
		)
		return ports.CheckoutSession{}, fmt.Errorf("%w: %v", domainerrors.ErrPaymentProviderFailure, err)
	}
	return result.(ports.CheckoutSession), nil
}

func checkoutForm(req ports.CheckoutSessionRequest) map[string]string {
	form := map[string]string{
		"mode":                    "payment",
		"payment_method_types[0]": "card",
		"line_items[0][quantity]": "1",
		"line_items[0][price_data][currency]":                  req.Currency,
		"line_items[0][price_data][unit_amount]":               strconv.FormatInt(req.AmountCents, 10),
		"line_items[0][price_data][product_data][name]":        req.ProductName,
		"line_items[0][price_data][product_data][description]": req.Description,
		"success_url": req.SuccessURL,
		"cancel_url":  req.CancelURL,
	}
	if email := strings.TrimSpace(req.CustomerEmail); email != "" {
		form["customer_email"] = email
	}
	for key, value := range req.Metadata {
		form["metadata["+key+"]"] = value
	}
	return form
}

func providerError(resp *resty.Response) error {
	message := ""
	if body, ok := resp.Error().(*errorResponse); ok && body != nil {
		message = strings.TrimSpace(body.Error.Message)
	}
	if message == "" {
		message = strings.TrimSpace(resp.String())
	}
	if len(message) > maxErrorMessage {
		message = message[:maxErrorMessage]
	}
	return fmt.Errorf("stripe responded %d: %s", resp.StatusCode(), message)
}
