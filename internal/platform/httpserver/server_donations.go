package httpserver

import (
	"errors"
	"net/http"

	"funded/contexts/fundraising/campaign-service/application/commands"
	"funded/contexts/fundraising/campaign-service/domain/entities"
	campaignerrors "funded/contexts/fundraising/campaign-service/domain/errors"
	campaignhttp "funded/contexts/fundraising/campaign-service/transport/http"
	"funded/internal/platform/metrics"
)

func (s *Server) handleStartCheckout(w http.ResponseWriter, r *http.Request) {
	var req campaignhttp.StartCheckoutRequest
	if err := decodeJSON(w, r, checkoutBodyLimit, true, &req); err != nil {
		metrics.CheckoutsTotal.WithLabelValues("rejected").Inc()
		writeBodyError(w, err)
		return
	}
	actor := s.optionalActor(r)

	resp, err := s.campaigns.Handler.StartCheckoutHandler(r.Context(), campaignActor(actor), r.Header.Get("Idempotency-Key"), req)
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues(checkoutFailureLabel(err)).Inc()
		s.writeCampaignDomainError(w, err)
		return
	}
	if resp.Replayed {
		metrics.CheckoutsTotal.WithLabelValues("replayed").Inc()
	} else {
		metrics.CheckoutsTotal.WithLabelValues("created").Inc()
	}
	writeSuccess(w, http.StatusOK, resp)
}

func checkoutFailureLabel(err error) string {
	switch {
	case errors.Is(err, campaignerrors.ErrPaymentProviderFailure):
		return "provider_error"
	case errors.Is(err, campaignerrors.ErrInvalidDonationAmount),
		errors.Is(err, campaignerrors.ErrInvalidCheckoutRequest),
		errors.Is(err, campaignerrors.ErrCampaignNotFound),
		errors.Is(err, campaignerrors.ErrCampaignNotAccepting):
		return "rejected"
	default:
		return "error"
	}
}

func (s *Server) handleListMyDonations(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.campaigns.Handler.ListMyDonationsHandler(r.Context(), campaignActor(actor))
	if err != nil {
		s.writeCampaignDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp.Items)
}

func (s *Server) handleDonationStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.GetDonationStatusHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		s.writeCampaignDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

// handleStripeWebhook needs the raw body: the signature covers the exact bytes.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := readBody(w, r, webhookBodyLimit, true)
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "rejected").Inc()
		writeBodyError(w, err)
		return
	}

	resp, result, err := s.campaigns.Handler.StripeWebhookHandler(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "rejected").Inc()
		s.writeCampaignDomainError(w, err)
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues(result.EventType, string(result.Outcome)).Inc()
	if result.Outcome == commands.OutcomeApplied && result.Donation.PaymentStatus == entities.PaymentStatusPaid {
		metrics.DonationAmount.Observe(entities.DollarsFromCents(result.Donation.AmountCents))
	}
	writeSuccess(w, http.StatusOK, resp)
}
