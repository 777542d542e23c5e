package stripeadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"
	"funded/contexts/fundraising/campaign-service/ports"

	"github.com/stripe/stripe-go/v76/webhook"
)

// WebhookVerifier checks the Stripe-Signature header and reduces the event to
// a ports.PaymentEvent.
type WebhookVerifier struct {
	secret    string
	tolerance time.Duration
}

func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, domainerrors.ErrWebhookNotConfigured
	}
	return &WebhookVerifier{secret: secret, tolerance: webhook.DefaultTolerance}, nil
}

type sessionObject struct {
	ID            string          `json:"id"`
	PaymentStatus string          `json:"payment_status"`
	PaymentIntent json.RawMessage `json:"payment_intent"`
}

type chargeObject struct {
	PaymentIntent  json.RawMessage `json:"payment_intent"`
	AmountRefunded int64           `json:"amount_refunded"`
}

func (v *WebhookVerifier) Verify(payload []byte, signatureHeader string) (ports.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if isSignatureError(err) {
			return ports.PaymentEvent{}, fmt.Errorf("%w: %v", domainerrors.ErrInvalidSignature, err)
		}
		return ports.PaymentEvent{}, fmt.Errorf("%w: %v", domainerrors.ErrInvalidWebhookPayload, err)
	}
	if event.Data == nil {
		return ports.PaymentEvent{}, domainerrors.ErrInvalidWebhookPayload
	}

	result := ports.PaymentEvent{
		EventID: event.ID,
		Type:    ports.PaymentEventType(event.Type),
	}
	switch result.Type {
	case ports.EventCheckoutCompleted,
		ports.EventAsyncPaymentSucceeded,
		ports.EventAsyncPaymentFailed,
		ports.EventCheckoutExpired:
		var session sessionObject
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return ports.PaymentEvent{}, fmt.Errorf("%w: %v", domainerrors.ErrInvalidWebhookPayload, err)
		}
		result.SessionID = session.ID
		result.PaymentStatus = session.PaymentStatus
		result.PaymentIntent = expandableID(session.PaymentIntent)
	case ports.EventChargeRefunded:
		var charge chargeObject
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return ports.PaymentEvent{}, fmt.Errorf("%w: %v", domainerrors.ErrInvalidWebhookPayload, err)
		}
		result.PaymentIntent = expandableID(charge.PaymentIntent)
		result.AmountRefundedCents = charge.AmountRefunded
	}
	return result, nil
}

// expandableID reads a field Stripe sends either as an id string or as an
// expanded object carrying an id.
func expandableID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	var object struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &object); err == nil {
		return object.ID
	}
	return ""
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld)
}
