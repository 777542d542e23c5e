package services

import (
	"math"
	"net/url"
	"strings"

	"funded/contexts/fundraising/campaign-service/domain/entities"
	domainerrors "funded/contexts/fundraising/campaign-service/domain/errors"
)

const productNameTitleLimit = 50

// DonationAmountCents validates a dollar amount and converts it to cents.
func DonationAmountCents(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, domainerrors.ErrInvalidDonationAmount
	}
	cents := entities.CentsFromDollars(amount)
	if cents <= 0 || cents > entities.MaxDonationCents {
		return 0, domainerrors.ErrInvalidDonationAmount
	}
	return cents, nil
}

type ReturnURLs struct {
	SuccessURL string
	CancelURL  string
}

// CheckoutReturnURLs derives the hosted checkout redirect targets from the
// donor's origin. The session placeholder is expanded by the provider.
func CheckoutReturnURLs(originURL string, campaignID string) (ReturnURLs, error) {
	origin := strings.TrimRight(strings.TrimSpace(originURL), "/")
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return ReturnURLs{}, domainerrors.ErrInvalidCheckoutRequest
	}
	escapedID := url.PathEscape(campaignID)
	return ReturnURLs{
		SuccessURL: origin + "/donate/success?session_id={CHECKOUT_SESSION_ID}&campaign_id=" + url.QueryEscape(campaignID),
		CancelURL:  origin + "/campaign/" + escapedID,
	}, nil
}

func CheckoutProductName(title string) string {
	runes := []rune(strings.TrimSpace(title))
	if len(runes) > productNameTitleLimit {
		runes = runes[:productNameTitleLimit]
	}
	return "Donation: " + string(runes)
}
