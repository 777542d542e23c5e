package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "funded/contexts/fundraising/campaign-service/application"
	"funded/contexts/fundraising/campaign-service/domain/entities"
	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"
	"funded/contexts/fundraising/campaign-service/ports"
)

const providerPaymentStatusPaid = "paid"

type ReconcileOutcome string

const (
	OutcomeApplied        ReconcileOutcome = "applied"
	OutcomeDuplicate      ReconcileOutcome = "duplicate"
	OutcomeUnknownSession ReconcileOutcome = "unknown_session"
	OutcomeIgnored        ReconcileOutcome = "ignored"
)

type ReconcilePaymentCommand struct {
	Payload   []byte
	Signature string
}

type ReconcilePaymentResult struct {
	EventID           string
	EventType         string
	Outcome           ReconcileOutcome
	Donation          entities.Donation
	CampaignCompleted bool
}

// ReconcilePaymentUseCase turns verified provider webhooks into ledger
// transitions. A nil Verifier means no signing secret is configured and every
// delivery is refused.
type ReconcilePaymentUseCase struct {
	Verifier ports.WebhookVerifier
	Ledger   ports.PaymentLedger
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u ReconcilePaymentUseCase) Execute(ctx context.Context, cmd ReconcilePaymentCommand) (ReconcilePaymentResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if u.Verifier == nil {
		logger.Error("webhook rejected without signing secret",
			"event", "webhook_not_configured",
			"module", moduleName,
			"layer", "application",
		)
		return ReconcilePaymentResult{}, domainerrors.ErrWebhookNotConfigured
	}
	if strings.TrimSpace(cmd.Signature) == "" {
		logger.Warn("webhook rejected without signature",
			"event", "webhook_missing_signature",
			"module", moduleName,
			"layer", "application",
		)
		return ReconcilePaymentResult{}, domainerrors.ErrMissingSignature
	}

	event, err := u.Verifier.Verify(cmd.Payload, cmd.Signature)
	if err != nil {
		logger.Warn("webhook verification failed",
			"event", "webhook_verification_failed",
			"module", moduleName,
			"layer", "application",
			"error", err.Error(),
		)
		return ReconcilePaymentResult{}, err
	}

	result := ReconcilePaymentResult{
		EventID:   event.EventID,
		EventType: string(event.Type),
		Outcome:   OutcomeIgnored,
	}
	logger.Info("webhook event received",
		"event", "webhook_event_received",
		"module", moduleName,
		"layer", "application",
		"event_id", event.EventID,
		"event_type", event.Type,
		"session_id", event.SessionID,
	)

	at := now(u.Clock)
	var transition ports.PaymentTransition
	switch event.Type {
	case ports.EventCheckoutCompleted:
		// Delayed payment methods complete the session before funds settle;
		// those are confirmed later by async_payment_succeeded.
		if event.PaymentStatus != providerPaymentStatusPaid {
			return result, nil
		}
		transition, err = u.Ledger.MarkDonationPaid(ctx, event.SessionID, event.PaymentIntent, at)
	case ports.EventAsyncPaymentSucceeded:
		transition, err = u.Ledger.MarkDonationPaid(ctx, event.SessionID, event.PaymentIntent, at)
	case ports.EventAsyncPaymentFailed:
		transition, err = u.Ledger.MarkDonationUnpaid(ctx, event.SessionID, entities.PaymentStatusFailed, at)
	case ports.EventCheckoutExpired:
		transition, err = u.Ledger.MarkDonationUnpaid(ctx, event.SessionID, entities.PaymentStatusExpired, at)
	case ports.EventChargeRefunded:
		if strings.TrimSpace(event.PaymentIntent) == "" || event.AmountRefundedCents <= 0 {
			return result, nil
		}
		transition, err = u.Ledger.RefundDonation(ctx, event.PaymentIntent, event.AmountRefundedCents, at)
	default:
		logger.Info("webhook event type not handled",
			"event", "webhook_event_ignored",
			"module", moduleName,
			"layer", "application",
			"event_type", event.Type,
		)
		return result, nil
	}

	if err != nil {
		if errors.Is(err, domainerrors.ErrDonationNotFound) {
			// Provider retries cannot make an unknown session appear, so the
			// delivery is acknowledged.
			logger.Warn("webhook references unknown donation",
				"event", "webhook_unknown_session",
				"module", moduleName,
				"layer", "application",
				"event_type", event.Type,
				"session_id", event.SessionID,
				"payment_intent", event.PaymentIntent,
			)
			result.Outcome = OutcomeUnknownSession
			return result, nil
		}
		logger.Error("webhook ledger write failed",
			"event", "webhook_ledger_failed",
			"module", moduleName,
			"layer", "application",
			"event_type", event.Type,
			"session_id", event.SessionID,
			"error", err.Error(),
		)
		return ReconcilePaymentResult{}, err
	}

	result.Donation = transition.Donation
	result.CampaignCompleted = transition.CampaignCompleted
	if !transition.Applied {
		result.Outcome = OutcomeDuplicate
		logger.Info("webhook transition already applied",
			"event", "webhook_duplicate_delivery",
			"module", moduleName,
			"layer", "application",
			"event_type", event.Type,
			"donation_id", transition.Donation.DonationID,
			"payment_status", transition.Donation.PaymentStatus,
		)
		return result, nil
	}

	result.Outcome = OutcomeApplied
	logger.Info("webhook transition applied",
		"event", "webhook_transition_applied",
		"module", moduleName,
		"layer", "application",
		"event_type", event.Type,
		"donation_id", transition.Donation.DonationID,
		"campaign_id", transition.Donation.CampaignID,
		"payment_status", transition.Donation.PaymentStatus,
		"campaign_completed", transition.CampaignCompleted,
	)
	return result, nil
}
