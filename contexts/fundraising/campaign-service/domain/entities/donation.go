package entities

import (
	"math"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusExpired  PaymentStatus = "expired"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

const (
	AnonymousDonorName = "Anonymous"
	DefaultCurrency    = "usd"

	// MaxDonationCents caps a single checkout at $100,000.
	MaxDonationCents int64 = 100000 * 100
)

// Donation is the local payment transaction created at checkout and settled
// by provider webhooks.
type Donation struct {
	DonationID          string
	CampaignID          string
	CampaignTitle       string
	DonorID             string
	DonorName           string
	DonorEmail          string
	AmountCents         int64
	Currency            string
	Anonymous           bool
	StripeSessionID     string
	CheckoutURL         string
	StripePaymentIntent string
	PaymentStatus       PaymentStatus
	IdempotencyKey      string
	RefundAmountCents   int64
	RefundedAt          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// PublicName is the donor label shown on campaign pages.
func (d Donation) PublicName() string {
	if d.Anonymous || d.DonorName == "" {
		return AnonymousDonorName
	}
	return d.DonorName
}

// CanTransition lists the only status moves the ledger accepts.
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return to == PaymentStatusPaid || to == PaymentStatusFailed || to == PaymentStatusExpired
	case PaymentStatusPaid:
		return to == PaymentStatusRefunded
	default:
		return false
	}
}

func CentsFromDollars(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func DollarsFromCents(cents int64) float64 {
	return float64(cents) / 100
}
