package errors

import "errors"

var (
	ErrUnauthorized             = errors.New("authentication required")
	ErrForbidden                = errors.New("not authorized for this campaign")
	ErrStudentNotVerified       = errors.New("only verified students can create campaigns")
	ErrInvalidCampaignInput     = errors.New("invalid campaign input")
	ErrInvalidCategory          = errors.New("invalid campaign category")
	ErrInvalidCampaignStatus    = errors.New("invalid campaign status")
	ErrCampaignStatusConflict   = errors.New("campaign status changed concurrently")
	ErrInvalidListFilter        = errors.New("invalid list filter")
	ErrCampaignNotFound         = errors.New("campaign not found")
	ErrCampaignNotAccepting     = errors.New("campaign is not accepting donations")
	ErrInvalidCheckoutRequest   = errors.New("invalid checkout request")
	ErrInvalidDonationAmount    = errors.New("amount must be between $0.01 and $100,000")
	ErrDonationNotFound         = errors.New("donation not found")
	ErrDuplicateIdempotencyKey  = errors.New("donation already exists for idempotency key")
	ErrIdempotencyKeyReused     = errors.New("idempotency key was used for a different checkout")
	ErrPaymentProviderFailure   = errors.New("payment provider unavailable")
	ErrWebhookNotConfigured     = errors.New("webhook secret is not configured")
	ErrMissingSignature         = errors.New("missing webhook signature")
	ErrInvalidSignature         = errors.New("invalid webhook signature")
	ErrInvalidWebhookPayload    = errors.New("invalid webhook payload")
	ErrRepositoryInvariantBroke = errors.New("repository invariant broken")
)
