package ports

import (
	"context"
	"time"

	"funded/contexts/fundraising/campaign-service/domain/entities"
)

// CampaignListFilter defines read-side filtering and offset pagination.
type CampaignListFilter struct {
	Status   entities.CampaignStatus
	Category entities.CampaignCategory
	Search   string
	// StudentIDs restricts results to these owners when RestrictStudents is set.
	// An empty restricted set matches nothing.
	StudentIDs       []string
	RestrictStudents bool
	Offset           int
	Limit            int
}

// CampaignRepository owns campaign rows. Funding totals are never written
// through it; see PaymentLedger.
type CampaignRepository interface {
	CreateCampaign(ctx context.Context, campaign entities.Campaign) error
	GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error)
	// UpdateCampaign persists editable content only. Status is left as stored.
	UpdateCampaign(ctx context.Context, campaign entities.Campaign) error
	// UpdateCampaignStatus moves a campaign to status to only while it is still
	// in status from, and returns ErrCampaignStatusConflict otherwise.
	UpdateCampaignStatus(
		ctx context.Context,
		campaignID string,
		from entities.CampaignStatus,
		to entities.CampaignStatus,
		reason string,
		at time.Time,
	) (entities.Campaign, error)
	ListCampaigns(ctx context.Context, filter CampaignListFilter) ([]entities.Campaign, int, error)
	ListCampaignsByStudent(ctx context.Context, studentID string) ([]entities.Campaign, error)
	CampaignStats(ctx context.Context) (CampaignStats, error)
}

// DonationRepository owns checkout-time donation writes and read models.
type DonationRepository interface {
	// CreatePendingDonation returns ErrDuplicateIdempotencyKey when another
	// checkout already claimed the same key.
	CreatePendingDonation(ctx context.Context, donation entities.Donation) error
	GetDonationByIdempotencyKey(ctx context.Context, key string) (entities.Donation, bool, error)
	GetDonationBySession(ctx context.Context, sessionID string) (entities.Donation, error)
	ListPaidDonationsByCampaign(ctx context.Context, campaignID string, limit int) ([]entities.Donation, error)
	ListPaidDonationsByDonor(ctx context.Context, donorID string) ([]entities.Donation, error)
	DonationStats(ctx context.Context) (DonationStats, error)
}

// PaymentTransition is the outcome of one ledger write.
// Applied is false when the donation was not in the required source status,
// which is how duplicate webhook deliveries surface.
type PaymentTransition struct {
	Donation          entities.Donation
	Applied           bool
	CampaignCompleted bool
}

// PaymentLedger applies webhook-driven status changes. Each method is a
// compare-and-swap on payment_status committed together with the campaign
// totals it affects.
type PaymentLedger interface {
	MarkDonationPaid(ctx context.Context, sessionID string, paymentIntent string, at time.Time) (PaymentTransition, error)
	MarkDonationUnpaid(ctx context.Context, sessionID string, status entities.PaymentStatus, at time.Time) (PaymentTransition, error)
	RefundDonation(ctx context.Context, paymentIntent string, refundCents int64, at time.Time) (PaymentTransition, error)
}

type CampaignStats struct {
	Total     int
	Active    int
	Completed int
}

type DonationStats struct {
	TotalAmountCents int64
	TotalCount       int
}

// CheckoutSessionRequest is the provider-neutral hosted checkout input.
type CheckoutSessionRequest struct {
	AmountCents    int64
	Currency       string
	ProductName    string
	Description    string
	SuccessURL     string
	CancelURL      string
	CustomerEmail  string
	Metadata       map[string]string
	IdempotencyKey string
}

type CheckoutSession struct {
	SessionID string
	URL       string
}

// CheckoutGateway creates hosted checkout sessions at the payment provider.
type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (CheckoutSession, error)
}

type PaymentEventType string

const (
	EventCheckoutCompleted     PaymentEventType = "checkout.session.completed"
	EventAsyncPaymentSucceeded PaymentEventType = "checkout.session.async_payment_succeeded"
	EventAsyncPaymentFailed    PaymentEventType = "checkout.session.async_payment_failed"
	EventCheckoutExpired       PaymentEventType = "checkout.session.expired"
	EventChargeRefunded        PaymentEventType = "charge.refunded"
)

// PaymentEvent is a verified provider notification reduced to the fields
// reconciliation needs.
type PaymentEvent struct {
	EventID             string
	Type                PaymentEventType
	SessionID           string
	PaymentStatus       string
	PaymentIntent       string
	AmountRefundedCents int64
}

// WebhookVerifier authenticates a raw webhook body against its signature
// header and decodes it.
type WebhookVerifier interface {
	Verify(payload []byte, signatureHeader string) (PaymentEvent, error)
}

// Clock allows deterministic testing of timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts campaign/donation identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
