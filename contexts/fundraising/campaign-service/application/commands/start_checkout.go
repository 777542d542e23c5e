package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	application "funded/contexts/fundraising/campaign-service/application"
	"funded/contexts/fundraising/campaign-service/domain/entities"
	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"
	"funded/contexts/fundraising/campaign-service/domain/services"
	"funded/contexts/fundraising/campaign-service/ports"
)

const checkoutDescription = "Supporting education"

type StartCheckoutCommand struct {
	Actor          application.Actor
	CampaignID     string
	Amount         float64
	DonorName      string
	DonorEmail     string
	Anonymous      bool
	OriginURL      string
	IdempotencyKey string
}

type StartCheckoutResult struct {
	Donation entities.Donation
	Replayed bool
}

type StartCheckoutUseCase struct {
	Campaigns   ports.CampaignRepository
	Donations   ports.DonationRepository
	Gateway     ports.CheckoutGateway
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute runs checkout initiation in this order:
// 1) input validation (nothing is persisted on failure)
// 2) idempotency replay by key, for the same campaign and amount only
// 3) campaign eligibility
// 4) hosted session creation at the provider
// 5) pending donation write keyed by the provider session id.
func (u StartCheckoutUseCase) Execute(ctx context.Context, cmd StartCheckoutCommand) (StartCheckoutResult, error) {
	logger := application.ResolveLogger(u.Logger)
	campaignID := strings.TrimSpace(cmd.CampaignID)
	if campaignID == "" {
		return StartCheckoutResult{}, domainerrors.ErrInvalidCheckoutRequest
	}
	amountCents, err := services.DonationAmountCents(cmd.Amount)
	if err != nil {
		return StartCheckoutResult{}, err
	}
	if strings.TrimSpace(cmd.OriginURL) == "" {
		return StartCheckoutResult{}, domainerrors.ErrInvalidCheckoutRequest
	}
	returnURLs, err := services.CheckoutReturnURLs(cmd.OriginURL, campaignID)
	if err != nil {
		return StartCheckoutResult{}, err
	}

	idempotencyKey, err := u.resolveIdempotencyKey(ctx, cmd, campaignID)
	if err != nil {
		return StartCheckoutResult{}, err
	}

	logger.Info("checkout started",
		"event", "checkout_started",
		"module", moduleName,
		"layer", "application",
		"campaign_id", campaignID,
		"amount_cents", amountCents,
		"idempotency_key", idempotencyKey,
	)

	existing, found, err := u.Donations.GetDonationByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return StartCheckoutResult{}, err
	}
	if found {
		if err := matchesReplay(existing, campaignID, amountCents); err != nil {
			logger.Warn("idempotency key reused for a different checkout",
				"event", "checkout_idempotency_mismatch",
				"module", moduleName,
				"layer", "application",
				"campaign_id", campaignID,
				"stored_campaign_id", existing.CampaignID,
				"amount_cents", amountCents,
				"stored_amount_cents", existing.AmountCents,
			)
			return StartCheckoutResult{}, err
		}
		logger.Info("checkout replayed from idempotency key",
			"event", "checkout_replayed",
			"module", moduleName,
			"layer", "application",
			"campaign_id", existing.CampaignID,
			"session_id", existing.StripeSessionID,
		)
		return StartCheckoutResult{Donation: existing, Replayed: true}, nil
	}

	campaign, err := u.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return StartCheckoutResult{}, err
	}
	if !campaign.AcceptsDonations() {
		logger.Warn("checkout rejected for closed campaign",
			"event", "checkout_campaign_not_accepting",
			"module", moduleName,
			"layer", "application",
			"campaign_id", campaign.CampaignID,
			"status", campaign.Status,
		)
		return StartCheckoutResult{}, domainerrors.ErrCampaignNotAccepting
	}

	donorName := strings.TrimSpace(cmd.DonorName)
	if donorName == "" {
		donorName = entities.AnonymousDonorName
	}
	donorEmail := strings.TrimSpace(cmd.DonorEmail)
	if donorEmail == "" {
		donorEmail = strings.TrimSpace(cmd.Actor.Email)
	}

	session, err := u.Gateway.CreateCheckoutSession(ctx, ports.CheckoutSessionRequest{
		AmountCents:   amountCents,
		Currency:      entities.DefaultCurrency,
		ProductName:   services.CheckoutProductName(campaign.Title),
		Description:   checkoutDescription,
		SuccessURL:    returnURLs.SuccessURL,
		CancelURL:     returnURLs.CancelURL,
		CustomerEmail: donorEmail,
		Metadata: map[string]string{
			"campaign_id":     campaign.CampaignID,
			"donor_id":        cmd.Actor.UserID,
			"donor_name":      donorName,
			"anonymous":       strconv.FormatBool(cmd.Anonymous),
			"idempotency_key": idempotencyKey,
		},
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		logger.Error("checkout session creation failed",
			"event", "checkout_provider_failed",
			"module", moduleName,
			"layer", "application",
			"campaign_id", campaign.CampaignID,
			"error", err.Error(),
		)
		if errors.Is(err, domainerrors.ErrPaymentProviderFailure) {
			return StartCheckoutResult{}, err
		}
		return StartCheckoutResult{}, fmt.Errorf("%w: %v", domainerrors.ErrPaymentProviderFailure, err)
	}

	donationID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return StartCheckoutResult{}, err
	}
	at := now(u.Clock)
	donation := entities.Donation{
		DonationID:      donationID,
		CampaignID:      campaign.CampaignID,
		CampaignTitle:   campaign.Title,
		DonorID:         cmd.Actor.UserID,
		DonorName:       donorName,
		DonorEmail:      donorEmail,
		AmountCents:     amountCents,
		Currency:        entities.DefaultCurrency,
		Anonymous:       cmd.Anonymous,
		StripeSessionID: session.SessionID,
		CheckoutURL:     session.URL,
		PaymentStatus:   entities.PaymentStatusPending,
		IdempotencyKey:  idempotencyKey,
		CreatedAt:       at,
		UpdatedAt:       at,
	}

	if err := u.Donations.CreatePendingDonation(ctx, donation); err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateIdempotencyKey) {
			// A concurrent checkout with the same key won the insert.
			winner, found, getErr := u.Donations.GetDonationByIdempotencyKey(ctx, idempotencyKey)
			if getErr != nil {
				return StartCheckoutResult{}, getErr
			}
			if found {
				if err := matchesReplay(winner, campaignID, amountCents); err != nil {
					return StartCheckoutResult{}, err
				}
				return StartCheckoutResult{Donation: winner, Replayed: true}, nil
			}
		}
		logger.Error("pending donation write failed",
			"event", "checkout_donation_write_failed",
			"module", moduleName,
			"layer", "application",
			"campaign_id", campaign.CampaignID,
			"session_id", session.SessionID,
			"error", err.Error(),
		)
		return StartCheckoutResult{}, err
	}

	logger.Info("checkout session created",
		"event", "checkout_session_created",
		"module", moduleName,
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"donation_id", donation.DonationID,
		"session_id", donation.StripeSessionID,
		"amount_cents", donation.AmountCents,
	)
	return StartCheckoutResult{Donation: donation}, nil
}

// matchesReplay refuses to replay a donation created for another campaign or amount.
func matchesReplay(existing entities.Donation, campaignID string, amountCents int64) error {
	if existing.CampaignID != campaignID || existing.AmountCents != amountCents {
		return domainerrors.ErrIdempotencyKeyReused
	}
	return nil
}

func (u StartCheckoutUseCase) resolveIdempotencyKey(
	ctx context.Context,
	cmd StartCheckoutCommand,
	campaignID string,
) (string, error) {
	if key := strings.TrimSpace(cmd.IdempotencyKey); key != "" {
		return key, nil
	}
	id, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return "", err
	}
	suffix := strings.ReplaceAll(id, "-", "")
	if len(suffix) > 16 {
		suffix = suffix[:16]
	}
	return fmt.Sprintf("%s_%s_%s", campaignID, strconv.FormatFloat(cmd.Amount, 'f', -1, 64), suffix), nil
}
