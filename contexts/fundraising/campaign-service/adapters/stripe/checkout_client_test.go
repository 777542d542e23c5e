package stripeadapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"
	"funded/contexts/fundraising/campaign-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSessionRequest() ports.CheckoutSessionRequest {
	return ports.CheckoutSessionRequest{
		AmountCents:    2550,
		Currency:       "usd",
		ProductName:    "Donation: Laptop for CS degree",
		Description:    "Supporting education",
		SuccessURL:     "https://funded.test/donate/success?session_id={CHECKOUT_SESSION_ID}&campaign_id=c1",
		CancelURL:      "https://funded.test/campaign/c1",
		CustomerEmail:  "donor@example.com",
		Metadata:       map[string]string{"campaign_id": "c1", "anonymous": "false"},
		IdempotencyKey: "c1_25.5_abcdef0123456789",
	}
}

func TestCreateCheckoutSessionPostsForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.Equal(t, "c1_25.5_abcdef0123456789", r.Header.Get("Idempotency-Key"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "2550", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "usd", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "Donation: Laptop for CS degree", r.PostForm.Get("line_items[0][price_data][product_data][name]"))
		assert.Equal(t, "c1", r.PostForm.Get("metadata[campaign_id]"))
		assert.Equal(t, "donor@example.com", r.PostForm.Get("customer_email"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_abc","url":"https://checkout.stripe.com/c/pay/cs_test_abc"}`))
	}))
	defer server.Close()

	client, err := NewCheckoutClient(CheckoutClientConfig{APIKey: "sk_test_123", BaseURL: server.URL, Timeout: time.Second}, nil)
	require.NoError(t, err)

	session, err := client.CreateCheckoutSession(context.Background(), sampleSessionRequest())
	require.NoError(t, err)
	assert.Equal(t, "cs_test_abc", session.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_abc", session.URL)
}

func TestCreateCheckoutSessionMapsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid currency"}}`))
	}))
	defer server.Close()

	client, err := NewCheckoutClient(CheckoutClientConfig{APIKey: "sk_test_123", BaseURL: server.URL}, nil)
	require.NoError(t, err)

	_, err = client.CreateCheckoutSession(context.Background(), sampleSessionRequest())
	require.ErrorIs(t, err, domainerrors.ErrPaymentProviderFailure)
	assert.Contains(t, err.Error(), "Invalid currency")
}

func TestCreateCheckoutSessionFailsFastWhenBreakerOpens(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewCheckoutClient(CheckoutClientConfig{APIKey: "sk_test_123", BaseURL: server.URL}, nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = client.CreateCheckoutSession(context.Background(), sampleSessionRequest())
		require.ErrorIs(t, err, domainerrors.ErrPaymentProviderFailure)
	}
	assert.Equal(t, int64(3), hits.Load())
}

func TestNewCheckoutClientRequiresKey(t *testing.T) {
	_, err := NewCheckoutClient(CheckoutClientConfig{}, nil)
	assert.Error(t, err)
}
